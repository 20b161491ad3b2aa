// internal/loan/product/car.go
package product

// Car loan: wide age band, salary floor of 3 lakh, down payment between
// 10% and 50% of the vehicle price.
func Car() *Definition {
	specs := append(contactFields(),
		FieldSpec{
			Name: "Age",
			Kind: KindNumber,
			Ask:  "your age",
			Rules: []NumericRule{
				{Op: "lt", Value: 18, Category: RejectIneligible,
					Message: "INELIGIBLE: You must be at least 18 years old to apply for a car loan."},
				{Op: "gt", Value: 80, Category: RejectIneligible,
					Message: "INELIGIBLE: Maximum age limit for car loan is 80 years."},
			},
		},
		FieldSpec{
			Name: "applicant_annual_salary",
			Kind: KindCurrency,
			Ask:  "your annual salary",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Annual salary must be a positive amount. Please provide your yearly salary."},
				{Op: "lt", Value: 300000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum annual salary of ₹3,00,000 is required for car loan eligibility."},
				{Op: "gt", Value: 100000000, Category: RejectOutOfRange,
					Message: "Please verify your annual salary. The amount seems unusually high. Could you confirm your yearly income?"},
			},
		},
		FieldSpec{
			Name: "Coapplicant_Annual_Income",
			Kind: KindCurrency,
			Ask:  "your co-applicant's yearly income (0 if none)",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectOutOfRange,
					Message: "Co-applicant income cannot be negative. Please provide the co-applicant's yearly income (enter 0 if no co-applicant)."},
				{Op: "gt", Value: 100000000, Category: RejectOutOfRange,
					Message: "Please verify the co-applicant's income. The amount seems unusually high."},
			},
		},
		FieldSpec{
			Name: "CIBIL",
			Kind: KindNumber,
			Ask:  "your CIBIL score",
			Rules: []NumericRule{
				{Op: "lt", Value: 650, Category: RejectIneligible,
					Message: "INELIGIBLE: A minimum CIBIL score of 650 is required for car loan approval. Your current score does not meet our eligibility criteria."},
				{Op: "outside", Value: 300, Value2: 900, Category: RejectOutOfRange,
					Message: "Please provide a valid CIBIL score between 300 and 900. Could you check and confirm your credit score?"},
			},
		},
		FieldSpec{
			Name:    "Car_Type",
			Kind:    KindEnum,
			Ask:     "the type of car you plan to buy",
			Allowed: []string{"Sedan", "SUV", "Hatchback", "Coupe"},
			Synonym: map[string]string{
				"sedan": "Sedan", "suv": "SUV", "hatchback": "Hatchback", "coupe": "Coupe",
			},
			EnumMsg: "Please select your car type from: Sedan, SUV, Hatchback, Coupe. Which type of car are you planning to purchase?",
		},
		FieldSpec{
			Name: "down_payment_percent",
			Kind: KindNumber,
			Ask:  "your down payment percentage (10-50)",
			Rules: []NumericRule{
				{Op: "outside", Value: 10, Value2: 50, Category: RejectOutOfRange,
					Message: "Down payment percentage must be between 10% and 50%. Please specify your down payment percentage."},
			},
		},
		FieldSpec{
			Name: "Tenure",
			Kind: KindNumber,
			Ask:  "your preferred loan tenure in years (1-7)",
			Rules: []NumericRule{
				{Op: "outside", Value: 1, Value2: 7, Category: RejectOutOfRange,
					Message: "Car loan tenure must be between 1 and 7 years. Please specify your preferred repayment period."},
			},
		},
		FieldSpec{
			Name: "loan_amount",
			Kind: KindCurrency,
			Ask:  "how much loan you need",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Loan amount must be a positive amount. Please specify how much loan you need."},
				{Op: "lt", Value: 100000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum loan amount is ₹1,00,000 for car loans."},
				{Op: "gt", Value: 50000000, Category: RejectOutOfRange,
					Message: "Please verify your loan requirement. The amount seems unusually high for a car loan. Could you confirm the loan amount needed?"},
			},
		},
	)

	return &Definition{
		ID:             "car",
		DisplayName:    "Car Loan",
		Required:       fieldNames(specs),
		Fields:         buildFieldMap(specs),
		RequestedField: "loan_amount",
		SystemPrompt: `You are a friendly and professional car loan advisor chatbot.

Collect the following information from the user through natural conversation, one or two fields at a time:
- Customer_Name, Customer_Email, Customer_Phone (10 digits)
- Age (18-80)
- applicant_annual_salary (INR, at least 3 lakh)
- Coapplicant_Annual_Income (INR, 0 if none)
- CIBIL (650-900)
- Car_Type (Sedan, SUV, Hatchback, Coupe)
- down_payment_percent (10-50)
- Tenure (1-7 years)
- loan_amount (₹1,00,000 - ₹5,00,00,000)

Be warm and concise. Ask only for fields not yet provided.`,
		FallbackGreeting: "Hello! I'm your car loan assistant. I'll help you check your eligibility. To get started, could you tell me your full name?",
		FeatureColumns: []string{
			"Age", "Total_Annual_Income", "CIBIL", "Car_Type",
			"down_payment_percent", "Tenure", "loan_amount", "Employment_Type",
		},
		Computed: map[string]func(num func(string) float64) float64{
			"Total_Annual_Income": func(num func(string) float64) float64 {
				return num("applicant_annual_salary") + num("Coapplicant_Annual_Income")
			},
		},
		Encodings: map[string]map[string]float64{
			"Car_Type": {"Sedan": 0, "SUV": 1, "Hatchback": 2, "Coupe": 3},
		},
		Defaults: map[string]float64{
			"Employment_Type": 0,
		},
		Bounds: Bounds{
			AmountFloor: 100000,
			AmountCeil:  50000000,
			RateFloor:   7,
			RateCeil:    20,
		},
		ArtifactFile: "car_loan_model.json",
	}
}
