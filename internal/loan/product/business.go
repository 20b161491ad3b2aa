// internal/loan/product/business.go
package product

// Business loan: the richest rule set, with a cross-field constraint that
// net profit must stay strictly below annual revenue.
func Business() *Definition {
	specs := append(contactFields(),
		FieldSpec{
			Name: "Business_Age_Years",
			Kind: KindNumber,
			Ask:  "how many years your business has been operating",
			Rules: []NumericRule{
				{Op: "lt", Value: 1, Category: RejectIneligible,
					Message: "INELIGIBLE: Business must be operating for at least 1 year to qualify for a business loan."},
				{Op: "gt", Value: 50, Category: RejectOutOfRange,
					Message: "Please verify your business age. The duration seems unusually high. Could you confirm how many years your business has been operating?"},
			},
		},
		FieldSpec{
			Name: "Annual_Revenue",
			Kind: KindCurrency,
			Ask:  "your annual business revenue",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Annual revenue must be a positive amount. Please provide your yearly business revenue."},
				{Op: "lt", Value: 500000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum annual revenue of ₹5,00,000 is required for business loan eligibility."},
				{Op: "gt", Value: 1000000000, Category: RejectOutOfRange,
					Message: "Please verify your annual revenue. The amount seems unusually high. Could you confirm your yearly business income?"},
			},
		},
		FieldSpec{
			Name: "Net_Profit",
			Kind: KindCurrency,
			Ask:  "your yearly net profit",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Net profit must be a positive amount. Please provide your yearly net profit after all expenses."},
				{Op: "gt", Value: 500000000, Category: RejectOutOfRange,
					Message: "Please verify your net profit. The amount seems unusually high. Could you confirm your yearly net profit?"},
			},
		},
		FieldSpec{
			Name: "CIBIL_Score",
			Kind: KindNumber,
			Ask:  "your CIBIL score",
			Rules: []NumericRule{
				{Op: "lt", Value: 650, Category: RejectIneligible,
					Message: "INELIGIBLE: A minimum CIBIL score of 650 is required for business loan approval. Your current score does not meet our eligibility criteria."},
				{Op: "outside", Value: 300, Value2: 900, Category: RejectOutOfRange,
					Message: "Please provide a valid CIBIL score between 300 and 900. Could you check and confirm your credit score?"},
			},
		},
		FieldSpec{
			Name:    "Business_Type",
			Kind:    KindEnum,
			Ask:     "your business type",
			Allowed: []string{"Retail", "Trading", "Services", "Manufacturing"},
			Synonym: map[string]string{
				"retail": "Retail", "shop": "Retail",
				"trading": "Trading", "trader": "Trading",
				"services": "Services", "service": "Services",
				"manufacturing": "Manufacturing", "factory": "Manufacturing",
			},
			EnumMsg: "Please select your business type from: Retail, Trading, Services, Manufacturing. Which category best describes your business?",
		},
		FieldSpec{
			Name: "Existing_Loan_Amount",
			Kind: KindCurrency,
			Ask:  "your existing business loan amount (0 if none)",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectOutOfRange,
					Message: "Existing loan amount cannot be negative. Please provide your current business loan amount (enter 0 if none)."},
			},
		},
		FieldSpec{
			Name: "Loan_Tenure_Years",
			Kind: KindNumber,
			Ask:  "your preferred loan tenure in years (1-10)",
			Rules: []NumericRule{
				{Op: "outside", Value: 1, Value2: 10, Category: RejectOutOfRange,
					Message: "Business loan tenure must be between 1 and 10 years. Please specify your preferred repayment period."},
			},
		},
		FieldSpec{
			Name:    "Has_Collateral",
			Kind:    KindYesNo,
			Ask:     "whether you have collateral available (Yes or No)",
			Allowed: []string{"Yes", "No"},
			EnumMsg: "Please specify if you have collateral available: Yes or No.",
		},
		FieldSpec{
			Name:    "Has_Guarantor",
			Kind:    KindYesNo,
			Ask:     "whether you have a guarantor available (Yes or No)",
			Allowed: []string{"Yes", "No"},
			EnumMsg: "Please specify if you have a guarantor available: Yes or No.",
		},
		FieldSpec{
			Name:    "Industry_Risk_Rating",
			Kind:    KindEnum,
			Ask:     "your industry",
			Allowed: []string{"Healthcare", "FMCG", "IT Services", "Education", "Automobile", "Telecom", "Real Estate", "Hospitality", "Crypto", "Airlines"},
			Synonym: map[string]string{
				"healthcare": "Healthcare", "hospital": "Healthcare",
				"fmcg": "FMCG", "it services": "IT Services", "it": "IT Services", "software": "IT Services",
				"education": "Education", "automobile": "Automobile", "auto": "Automobile",
				"telecom": "Telecom", "real estate": "Real Estate", "hospitality": "Hospitality",
				"crypto": "Crypto", "airlines": "Airlines", "airline": "Airlines",
			},
			EnumMsg: "Please select your industry from: Healthcare, FMCG, IT Services, Education, Automobile, Telecom, Real Estate, Hospitality, Crypto, Airlines. Which industry best describes your business?",
		},
		FieldSpec{
			Name:    "Location_Tier",
			Kind:    KindEnum,
			Ask:     "your business location type",
			Allowed: []string{"Tier-1 City", "Tier-2 City", "Tier-3 City", "Rural"},
			Synonym: map[string]string{
				"tier-1 city": "Tier-1 City", "tier 1": "Tier-1 City", "tier1": "Tier-1 City", "metro": "Tier-1 City",
				"tier-2 city": "Tier-2 City", "tier 2": "Tier-2 City", "tier2": "Tier-2 City",
				"tier-3 city": "Tier-3 City", "tier 3": "Tier-3 City", "tier3": "Tier-3 City",
				"rural": "Rural", "village": "Rural",
			},
			EnumMsg: "Please select your business location type from: Tier-1 City, Tier-2 City, Tier-3 City, Rural. Which category best describes your business location?",
		},
		FieldSpec{
			Name: "Expected_Loan_Amount",
			Kind: KindCurrency,
			Ask:  "how much loan you need",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Expected loan amount must be a positive amount. Please specify how much loan you need."},
				{Op: "lt", Value: 100000, Category: RejectIneligible,
					Message: "INELIGIBLE: Minimum loan amount is ₹1,00,000 for business loans."},
				{Op: "gt", Value: 100000000, Category: RejectOutOfRange,
					Message: "Please verify your loan requirement. The amount seems unusually high. Could you confirm how much loan you need?"},
			},
		},
	)

	return &Definition{
		ID:          "business",
		DisplayName: "Business Loan",
		Required:    fieldNames(specs),
		Fields:      buildFieldMap(specs),
		CrossRules: []CrossRule{
			{
				Fields: []string{"Net_Profit", "Annual_Revenue"},
				Check: func(num func(string) float64) string {
					if num("Net_Profit") >= num("Annual_Revenue") {
						return "Net profit cannot be equal to or greater than annual revenue. Please verify your financial figures. Net profit should be the amount left after all business expenses are deducted from revenue."
					}
					return ""
				},
			},
		},
		RequestedField: "Expected_Loan_Amount",
		SystemPrompt: `You are a friendly and professional business loan advisor chatbot.

Collect the following information from the user through natural conversation, one or two fields at a time:
- Customer_Name, Customer_Email, Customer_Phone (10 digits)
- Business_Age_Years (at least 1)
- Annual_Revenue (INR, at least 5 lakh)
- Net_Profit (INR, must be less than revenue)
- CIBIL_Score (650-900)
- Business_Type (Retail, Trading, Services, Manufacturing)
- Existing_Loan_Amount (INR, 0 if none)
- Loan_Tenure_Years (1-10)
- Has_Collateral (Yes/No)
- Has_Guarantor (Yes/No)
- Industry_Risk_Rating (Healthcare, FMCG, IT Services, Education, Automobile, Telecom, Real Estate, Hospitality, Crypto, Airlines)
- Location_Tier (Tier-1 City, Tier-2 City, Tier-3 City, Rural)
- Expected_Loan_Amount (₹1,00,000 - ₹10,00,00,000)

Be warm and concise. Ask only for fields not yet provided.`,
		FallbackGreeting: "Hello! I'm your business loan assistant. I'll help you check your eligibility. To get started, could you tell me your full name?",
		FeatureColumns: []string{
			"Business_Age_Years", "Annual_Revenue", "Net_Profit", "CIBIL_Score",
			"Business_Type", "Existing_Loan_Amount", "Loan_Tenure_Years",
			"Has_Collateral", "Has_Guarantor", "Industry_Risk_Rating",
			"Location_Tier", "Profit_Margin", "Debt_to_Revenue_Ratio",
		},
		Computed: map[string]func(num func(string) float64) float64{
			"Profit_Margin": func(num func(string) float64) float64 {
				return num("Net_Profit") / num("Annual_Revenue")
			},
			"Debt_to_Revenue_Ratio": func(num func(string) float64) float64 {
				return num("Existing_Loan_Amount") / num("Annual_Revenue")
			},
		},
		Encodings: map[string]map[string]float64{
			"Business_Type": {"Retail": 0, "Trading": 1, "Services": 2, "Manufacturing": 3},
			"Has_Collateral": {"Yes": 1, "No": 0},
			"Has_Guarantor":  {"Yes": 1, "No": 0},
			"Industry_Risk_Rating": {
				"Healthcare": 1, "FMCG": 1,
				"IT Services": 2, "Education": 2,
				"Automobile": 3, "Telecom": 3,
				"Real Estate": 4, "Hospitality": 4,
				"Crypto": 5, "Airlines": 5,
			},
			"Location_Tier": {"Tier-1 City": 1, "Tier-2 City": 2, "Tier-3 City": 3, "Rural": 4},
		},
		Bounds: Bounds{
			AmountFloor: 100000,
			AmountCeil:  100000000,
			RateFloor:   8,
			RateCeil:    24,
		},
		ArtifactFile: "business_loan_model.json",
	}
}
