// internal/loan/product/gold.go
package product

// Gold loan: the widest age band and the lowest CIBIL floor, with the loan
// amount capped at 80% of the pledged gold value at prediction time.
func Gold() *Definition {
	specs := append(contactFields(),
		FieldSpec{
			Name: "Age",
			Kind: KindNumber,
			Ask:  "your age",
			Rules: []NumericRule{
				{Op: "lt", Value: 21, Category: RejectIneligible,
					Message: "INELIGIBLE: You must be at least 21 years old to apply for a gold loan. Unfortunately, we cannot process your application at this time."},
				{Op: "gt", Value: 75, Category: RejectIneligible,
					Message: "INELIGIBLE: Gold loans are available only for applicants up to 75 years of age. Unfortunately, we cannot process your application at this time."},
			},
		},
		FieldSpec{
			Name: "Annual_Income",
			Kind: KindCurrency,
			Ask:  "your annual income",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Annual income must be a positive amount. Please provide your yearly income."},
				{Op: "lt", Value: 180000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum annual income of ₹1,80,000 is required for gold loan eligibility."},
				{Op: "gt", Value: 60000000, Category: RejectOutOfRange,
					Message: "Please verify your annual income. The amount seems unusually high. Could you confirm?"},
			},
		},
		FieldSpec{
			Name: "CIBIL_Score",
			Kind: KindNumber,
			Ask:  "your CIBIL score",
			Rules: []NumericRule{
				{Op: "lt", Value: 600, Category: RejectIneligible,
					Message: "INELIGIBLE: A minimum CIBIL score of 600 is required for gold loan approval. Your current score does not meet our eligibility criteria."},
				{Op: "outside", Value: 300, Value2: 900, Category: RejectOutOfRange,
					Message: "Please provide a valid CIBIL score between 300 and 900. Could you check and confirm your credit score?"},
			},
		},
		FieldSpec{
			Name:    "Occupation",
			Kind:    KindEnum,
			Ask:     "your occupation",
			Allowed: []string{"Salaried", "Retired", "Business", "Self-employed"},
			Synonym: map[string]string{
				"salaried": "Salaried", "salary": "Salaried", "employee": "Salaried",
				"retired": "Retired", "pensioner": "Retired",
				"business": "Business", "businessman": "Business",
				"self-employed": "Self-employed", "self employed": "Self-employed", "freelancer": "Self-employed",
			},
			EnumMsg: "Please select your occupation from: Salaried, Retired, Business, Self-employed. Which category best describes your occupation?",
		},
		FieldSpec{
			Name: "Gold_Value",
			Kind: KindCurrency,
			Ask:  "the current market value of your gold",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Gold value must be a positive amount. Please provide the current market value of your gold in INR."},
				{Op: "lt", Value: 10000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum gold value of ₹10,000 is required for gold loan eligibility."},
				{Op: "gt", Value: 50000000, Category: RejectOutOfRange,
					Message: "Please verify your gold value. The amount seems unusually high. Could you confirm the current market value?"},
			},
		},
		FieldSpec{
			Name: "Loan_Amount",
			Kind: KindCurrency,
			Ask:  "your desired loan amount",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Loan amount must be a positive amount. Please provide your desired loan amount in INR."},
				{Op: "lt", Value: 5000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum loan amount of ₹5,000 is required."},
				{Op: "gt", Value: 10000000, Category: RejectOutOfRange,
					Message: "Please verify your loan amount. The amount seems unusually high for a gold loan."},
			},
		},
		FieldSpec{
			Name: "Loan_Tenure",
			Kind: KindNumber,
			Ask:  "your preferred loan tenure in years (1-3)",
			Rules: []NumericRule{
				{Op: "lt", Value: 1, Category: RejectIneligible,
					Message: "INELIGIBLE: Gold loan tenure must be at least 1 year. Please specify a tenure between 1 and 3 years."},
				{Op: "gt", Value: 3, Category: RejectIneligible,
					Message: "INELIGIBLE: Gold loan tenure cannot exceed 3 years. Please specify a tenure between 1 and 3 years."},
			},
		},
	)

	return &Definition{
		ID:             "gold",
		DisplayName:    "Gold Loan",
		Required:       fieldNames(specs),
		Fields:         buildFieldMap(specs),
		RequestedField: "Loan_Amount",
		SystemPrompt: `You are a friendly and professional gold loan advisor chatbot.

Collect the following information from the user through natural conversation, one or two fields at a time:
- Customer_Name, Customer_Email, Customer_Phone (10 digits)
- Age (21-75)
- Annual_Income (INR, at least 1.8 lakh)
- CIBIL_Score (600-900)
- Occupation (Salaried, Retired, Business, Self-employed)
- Gold_Value (INR, at least ₹10,000)
- Loan_Amount (INR, at least ₹5,000)
- Loan_Tenure (1-3 years)

Be warm and concise. Ask only for fields not yet provided.`,
		FallbackGreeting: "Hello! I'm your gold loan assistant. I'll help you check your eligibility. To get started, could you tell me your full name?",
		FeatureColumns: []string{
			"Age", "Monthly_Income", "CIBIL_Score", "Occupation",
			"Gold_Value", "Loan_Amount", "Loan_Tenure", "Existing_EMI",
		},
		Computed: map[string]func(num func(string) float64) float64{
			"Monthly_Income": func(num func(string) float64) float64 {
				return num("Annual_Income") / 12
			},
		},
		Encodings: map[string]map[string]float64{
			"Occupation": {"Salaried": 0, "Retired": 1, "Business": 2, "Self-employed": 3},
		},
		Defaults: map[string]float64{
			"Existing_EMI": 0,
		},
		Bounds: Bounds{
			AmountFloor:     5000,
			AmountCeil:      10000000,
			RateFloor:       8,
			RateCeil:        24,
			CollateralField: "Gold_Value",
			CollateralRatio: 0.8,
		},
		ArtifactFile: "gold_loan_model.json",
	}
}
