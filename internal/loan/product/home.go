// internal/loan/product/home.go
package product

// Home loan: applicants 21-50, CIBIL floor 650, loan capped by property
// value through a cross-field rule.
func Home() *Definition {
	specs := append(contactFields(),
		FieldSpec{
			Name:  "Age",
			Kind:  KindNumber,
			Ask:   "your age",
			Rules: []NumericRule{
				{Op: "outside", Value: 21, Value2: 50, Category: RejectOutOfRange,
					Message: "I need your age to be between 21 and 50 years for home loan eligibility. Could you please confirm your age?"},
			},
		},
		FieldSpec{
			Name: "Income",
			Kind: KindCurrency,
			Ask:  "your monthly income",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Could you please tell me your monthly income? This helps me calculate your loan eligibility."},
			},
		},
		FieldSpec{
			Name: "Guarantor_income",
			Kind: KindCurrency,
			Ask:  "your guarantor's income (0 if none)",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectOutOfRange,
					Message: "Guarantor income cannot be negative. Please provide the amount, or 0 if there is no guarantor."},
			},
		},
		FieldSpec{
			Name: "Tenure",
			Kind: KindNumber,
			Ask:  "your preferred loan tenure in years (5-30)",
			Rules: []NumericRule{
				{Op: "outside", Value: 5, Value2: 30, Category: RejectOutOfRange,
					Message: "Loan tenure should be between 5 and 30 years. How many years would you like to repay the loan?"},
			},
		},
		FieldSpec{
			Name: "CIBIL_score",
			Kind: KindNumber,
			Ask:  "your CIBIL score",
			Rules: []NumericRule{
				{Op: "lt", Value: 650, Category: RejectIneligible,
					Message: "INELIGIBLE: For home loans we require a minimum CIBIL score of 650. Unfortunately, your current score doesn't meet our eligibility criteria."},
				{Op: "outside", Value: 300, Value2: 900, Category: RejectOutOfRange,
					Message: "Your CIBIL score should be between 300 and 900. Could you please check and provide your correct credit score?"},
			},
		},
		FieldSpec{
			Name:    "Employment_type",
			Kind:    KindEnum,
			Ask:     "your employment type",
			Allowed: []string{"Business Owner", "Salaried", "Government Employee", "Self-Employed"},
			Synonym: map[string]string{
				"business owner": "Business Owner", "business": "Business Owner",
				"salaried": "Salaried", "salary": "Salaried", "employee": "Salaried",
				"government employee": "Government Employee", "government": "Government Employee",
				"self-employed": "Self-Employed", "self employed": "Self-Employed", "freelancer": "Self-Employed",
			},
			EnumMsg: "For employment type, please choose from: Business Owner, Salaried, Government Employee, Self-Employed. Which category best describes your employment?",
		},
		FieldSpec{
			Name: "Down_payment",
			Kind: KindCurrency,
			Ask:  "your down payment amount",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectOutOfRange,
					Message: "How much can you pay as down payment? Even if it's zero, please let me know."},
			},
		},
		FieldSpec{
			Name: "Existing_total_EMI",
			Kind: KindCurrency,
			Ask:  "your existing total monthly EMI (0 if none)",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectOutOfRange,
					Message: "EMI amount cannot be negative. Please provide your current monthly EMI obligations (enter 0 if none)."},
			},
		},
		FieldSpec{
			Name: "Loan_amount_requested",
			Kind: KindCurrency,
			Ask:  "the loan amount you are looking for",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "How much loan amount are you looking for? Please share your expected loan requirement."},
			},
		},
		FieldSpec{
			Name: "Property_value",
			Kind: KindCurrency,
			Ask:  "the total value of the property",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "What's the total value of the property you're planning to purchase? This is important for calculating your loan amount."},
			},
		},
	)

	return &Definition{
		ID:          "home",
		DisplayName: "Home Loan",
		Required:    fieldNames(specs),
		Fields:      buildFieldMap(specs),
		CrossRules: []CrossRule{
			{
				Fields: []string{"Loan_amount_requested", "Property_value"},
				Check: func(num func(string) float64) string {
					loan := num("Loan_amount_requested")
					property := num("Property_value")
					if loan > property {
						return "The loan amount requested cannot be more than the property value. Please adjust your loan amount or property value."
					}
					return ""
				},
			},
		},
		RequestedField: "Loan_amount_requested",
		SystemPrompt: `You are a friendly and professional home loan advisor chatbot.

Collect the following information from the user through natural conversation, one or two fields at a time:
- Customer_Name, Customer_Email, Customer_Phone (10 digits)
- Age (21-50)
- Income (monthly, INR)
- Guarantor_income (INR, 0 if none)
- Tenure (5-30 years)
- CIBIL_score (650-900)
- Employment_type (Business Owner, Salaried, Government Employee, Self-Employed)
- Down_payment (INR)
- Existing_total_EMI (INR, 0 if none)
- Loan_amount_requested (INR, must not exceed property value)
- Property_value (INR)

Be warm and concise. Ask only for fields not yet provided.`,
		FallbackGreeting: "Hello! I'm your home loan assistant. I'll help you check your eligibility. To get started, could you tell me your full name?",
		FeatureColumns: []string{
			"Age", "Income", "Guarantor_income", "Tenure", "CIBIL_score",
			"Down_payment", "Existing_total_EMI", "Loan_amount_requested",
			"Property_value", "Employment_type", "LTV", "EMI_to_income", "DP_ratio",
		},
		Computed: map[string]func(num func(string) float64) float64{
			"LTV": func(num func(string) float64) float64 {
				return num("Loan_amount_requested") / num("Property_value")
			},
			"EMI_to_income": func(num func(string) float64) float64 {
				return num("Existing_total_EMI") / num("Income")
			},
			"DP_ratio": func(num func(string) float64) float64 {
				return num("Down_payment") / num("Property_value")
			},
		},
		Encodings: map[string]map[string]float64{
			"Employment_type": {
				"Business Owner": 0, "Salaried": 1, "Government Employee": 2, "Self-Employed": 3,
			},
		},
		Bounds: Bounds{
			AmountFloor: 100000,
			AmountCeil:  100000000,
			RateFloor:   8,
			RateCeil:    15,
		},
		ArtifactFile: "home_loan_model.json",
	}
}
