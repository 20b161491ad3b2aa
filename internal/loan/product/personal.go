// internal/loan/product/personal.go
package product

// Personal loan: hard eligibility gates on age, income, employment duration
// and CIBIL; amounts between 50 thousand and 20 lakh.
func Personal() *Definition {
	specs := append(contactFields(),
		FieldSpec{
			Name: "Age",
			Kind: KindNumber,
			Ask:  "your age",
			Rules: []NumericRule{
				{Op: "lt", Value: 21, Category: RejectIneligible,
					Message: "INELIGIBLE: You must be at least 21 years old to apply for a personal loan. Unfortunately, we cannot process your application at this time."},
				{Op: "gt", Value: 65, Category: RejectIneligible,
					Message: "INELIGIBLE: Personal loans are available only for applicants up to 65 years of age. Unfortunately, we cannot process your application at this time."},
			},
		},
		FieldSpec{
			Name:    "Employment_Type",
			Kind:    KindEnum,
			Ask:     "your employment type (Self-Employed or Salaried)",
			Allowed: []string{"Self-Employed", "Salaried"},
			Synonym: map[string]string{
				"self-employed": "Self-Employed", "self employed": "Self-Employed",
				"business": "Self-Employed", "freelancer": "Self-Employed",
				"salaried": "Salaried", "salary": "Salaried", "employee": "Salaried",
			},
			EnumMsg: "Please select your employment type from: Self-Employed, Salaried. Which category describes your employment?",
		},
		FieldSpec{
			Name: "Employment_Duration_Years",
			Kind: KindNumber,
			Ask:  "how many years you have been employed",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectIneligible,
					Message: "INELIGIBLE: Employment duration cannot be negative. Please provide valid employment experience."},
				{Op: "lt", Value: 1, Category: RejectIneligible,
					Message: "INELIGIBLE: You must have at least 1 year of employment experience to qualify for a personal loan."},
				{Op: "gt", Value: 45, Category: RejectOutOfRange,
					Message: "Employment duration seems unusually high. Could you please confirm how many years you've been in your current employment type?"},
			},
		},
		FieldSpec{
			Name: "Annual_Income",
			Kind: KindCurrency,
			Ask:  "your annual income",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Annual income must be a positive amount. Please provide your yearly income."},
				{Op: "lt", Value: 200000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum annual income of ₹2,00,000 is required for personal loan eligibility."},
				{Op: "gt", Value: 50000000, Category: RejectOutOfRange,
					Message: "Please verify your annual income. The amount seems unusually high. Could you confirm?"},
			},
		},
		FieldSpec{
			Name: "CIBIL_Score",
			Kind: KindNumber,
			Ask:  "your CIBIL score",
			Rules: []NumericRule{
				{Op: "lt", Value: 650, Category: RejectIneligible,
					Message: "INELIGIBLE: A minimum CIBIL score of 650 is required for personal loan approval. Your current score does not meet our eligibility criteria."},
				{Op: "outside", Value: 300, Value2: 900, Category: RejectOutOfRange,
					Message: "Please provide a valid CIBIL score between 300 and 900. Could you check and confirm your credit score?"},
			},
		},
		FieldSpec{
			Name: "Existing_EMIs",
			Kind: KindCurrency,
			Ask:  "your existing monthly EMI obligations (0 if none)",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectOutOfRange,
					Message: "EMI amount cannot be negative. Please provide your current monthly EMI obligations (enter 0 if none)."},
			},
		},
		FieldSpec{
			Name: "Loan_Term_Years",
			Kind: KindNumber,
			Ask:  "your preferred loan term in years (1-7)",
			Rules: []NumericRule{
				{Op: "outside", Value: 1, Value2: 7, Category: RejectOutOfRange,
					Message: "Loan term must be between 1 and 7 years. Please specify your preferred repayment period."},
			},
		},
		FieldSpec{
			Name: "Expected_Loan_Amount",
			Kind: KindCurrency,
			Ask:  "your expected loan amount (₹50,000 - ₹20,00,000)",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Loan amount must be a positive value. Please specify your loan requirement."},
				{Op: "lt", Value: 50000, Category: RejectOutOfRange,
					Message: "Minimum loan amount is ₹50,000. Please specify an amount of at least ₹50,000."},
				{Op: "gt", Value: 2000000, Category: RejectOutOfRange,
					Message: "Maximum loan amount is ₹20,00,000. Please specify an amount within this limit."},
			},
		},
	)

	return &Definition{
		ID:             "personal",
		DisplayName:    "Personal Loan",
		Required:       fieldNames(specs),
		Fields:         buildFieldMap(specs),
		RequestedField: "Expected_Loan_Amount",
		SystemPrompt: `You are a friendly and professional personal loan advisor chatbot.

Collect the following information from the user through natural conversation, one or two fields at a time:
- Customer_Name, Customer_Email, Customer_Phone (10 digits)
- Age (21-65)
- Employment_Type (Self-Employed, Salaried)
- Employment_Duration_Years (at least 1)
- Annual_Income (INR, at least 2 lakh)
- CIBIL_Score (650-900)
- Existing_EMIs (monthly INR, 0 if none)
- Loan_Term_Years (1-7)
- Expected_Loan_Amount (₹50,000 - ₹20,00,000)

Be warm and concise. Ask only for fields not yet provided.`,
		FallbackGreeting: "Hello! I'm your personal loan assistant. I'll help you check your eligibility. To get started, could you tell me your full name?",
		FeatureColumns: []string{
			"Age", "Employment_Type", "Employment_Duration_Years", "Annual_Income",
			"CIBIL_Score", "Existing_EMIs", "Loan_Term_Years", "Expected_Loan_Amount",
		},
		Encodings: map[string]map[string]float64{
			"Employment_Type": {"Self-Employed": 0, "Salaried": 1},
		},
		Bounds: Bounds{
			AmountFloor: 50000,
			AmountCeil:  2000000,
			RateFloor:   8,
			RateCeil:    18,
		},
		ArtifactFile: "personal_loan_model.json",
	}
}
