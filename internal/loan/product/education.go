// internal/loan/product/education.go
package product

// Education loan: applicants 18-35, CIBIL floor 650, amounts up to 3 crore.
// Academic_Performance is derived from Academic_Score, so the score alone
// satisfies both slots.
func Education() *Definition {
	specs := append(contactFields(),
		FieldSpec{
			Name:  "Age",
			Kind:  KindNumber,
			Ask:   "your age",
			Rules: []NumericRule{
				{Op: "outside", Value: 18, Value2: 35, Category: RejectOutOfRange,
					Message: "Invalid age. For education loan applicants, age must be between 18-35."},
			},
		},
		FieldSpec{
			Name: "Academic_Score",
			Kind: KindNumber,
			Ask:  "your academic score (percentage)",
			Rules: []NumericRule{
				{Op: "lt", Value: 0, Category: RejectOutOfRange,
					Message: "Invalid score. Please enter a real quantity (score cannot be negative)."},
				{Op: "gt", Value: 100, Category: RejectOutOfRange,
					Message: "Invalid score. Please enter a real quantity (score cannot exceed 100)."},
			},
		},
		FieldSpec{
			Name:    "Intended_Course",
			Kind:    KindEnum,
			Ask:     "your intended course",
			Allowed: []string{"STEM", "MBA", "Medicine", "Finance", "Law", "Arts", "Other"},
			Synonym: map[string]string{
				"stem": "STEM", "engineering": "STEM", "computer science": "STEM",
				"mba": "MBA", "business administration": "MBA",
				"medicine": "Medicine", "mbbs": "Medicine", "medical": "Medicine",
				"finance": "Finance", "law": "Law", "arts": "Arts", "other": "Other",
			},
			EnumMsg: "Please choose your intended course from: STEM, MBA, Medicine, Finance, Law, Arts, Other.",
		},
		FieldSpec{
			Name:    "University_Tier",
			Kind:    KindEnum,
			Ask:     "your university tier (Tier1, Tier2 or Tier3)",
			Allowed: []string{"Tier1", "Tier2", "Tier3"},
			Synonym: map[string]string{
				"tier 1": "Tier1", "tier1": "Tier1", "tier-1": "Tier1",
				"tier 2": "Tier2", "tier2": "Tier2", "tier-2": "Tier2",
				"tier 3": "Tier3", "tier3": "Tier3", "tier-3": "Tier3",
			},
			EnumMsg: "Please choose your university tier from: Tier1, Tier2, Tier3.",
		},
		FieldSpec{
			Name: "Coapplicant_Income",
			Kind: KindCurrency,
			Ask:  "your co-applicant's annual income",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Invalid coapplicant income. All values must be positive (negative values like -56418 are not possible)."},
			},
		},
		FieldSpec{
			Name: "Guarantor_Networth",
			Kind: KindCurrency,
			Ask:  "your guarantor's net worth",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Invalid guarantor networth. All values must be positive (negative values like -56418 are not possible)."},
			},
		},
		FieldSpec{
			Name: "CIBIL_Score",
			Kind: KindNumber,
			Ask:  "your CIBIL score",
			Rules: []NumericRule{
				{Op: "lt", Value: 650, Category: RejectIneligible,
					Message: "INELIGIBLE: CIBIL score must be at least 650 for education loan."},
				{Op: "gt", Value: 900, Category: RejectOutOfRange,
					Message: "Invalid CIBIL score. CIBIL score cannot exceed 900."},
			},
		},
		FieldSpec{
			Name:    "Loan_Type",
			Kind:    KindEnum,
			Ask:     "your loan type (Secured or Unsecured)",
			Allowed: []string{"Secured", "Unsecured"},
			Synonym: map[string]string{
				"secured": "Secured", "with collateral": "Secured", "collateral": "Secured",
				"unsecured": "Unsecured", "without collateral": "Unsecured",
			},
			EnumMsg: "Please choose your loan type: Secured or Unsecured.",
		},
		FieldSpec{
			Name: "Loan_Term",
			Kind: KindNumber,
			Ask:  "your preferred loan term in years (1-15)",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Invalid loan term. All values must be positive."},
				{Op: "outside", Value: 1, Value2: 15, Category: RejectOutOfRange,
					Message: "Invalid loan term. Education loan term must be between 1-15 years."},
			},
		},
		FieldSpec{
			Name: "Expected_Loan_Amount",
			Kind: KindCurrency,
			Ask:  "your expected loan amount",
			Rules: []NumericRule{
				{Op: "le", Value: 0, Category: RejectOutOfRange,
					Message: "Invalid loan amount. All values must be positive."},
				{Op: "gt", Value: 30000000, Category: RejectOutOfRange,
					Message: "Not eligible. Loan amount cannot exceed ₹3,00,00,000."},
			},
		},
	)

	return &Definition{
		ID:          "education",
		DisplayName: "Education Loan",
		Required:    append(fieldNames(specs), "Academic_Performance"),
		Fields:      buildFieldMap(specs),
		Derived: []DerivedRule{
			{
				Source: "Academic_Score",
				Target: "Academic_Performance",
				Tiers: []ScoreTier{
					{Min: 90, Label: "Excellent"},
					{Min: 75, Label: "Good"},
					{Min: 60, Label: "Average"},
					{Min: 0, Label: "Poor"},
				},
			},
		},
		RequestedField: "Expected_Loan_Amount",
		SystemPrompt: `You are a friendly and professional education loan advisor chatbot.

Collect the following information from the user through natural conversation, one or two fields at a time:
- Customer_Name, Customer_Email, Customer_Phone (10 digits)
- Age (18-35)
- Academic_Score (0-100)
- Intended_Course (STEM, MBA, Medicine, Finance, Law, Arts, Other)
- University_Tier (Tier1, Tier2, Tier3)
- Coapplicant_Income (annual, INR)
- Guarantor_Networth (INR)
- CIBIL_Score (650-900)
- Loan_Type (Secured, Unsecured)
- Loan_Term (1-15 years)
- Expected_Loan_Amount (up to 3 crore INR)

Be warm and concise. Ask only for fields not yet provided.`,
		FallbackGreeting: "Hello! I'm your education loan assistant. I'll help you check your eligibility. To get started, could you tell me your full name?",
		FeatureColumns: []string{
			"Age", "Academic_Performance", "Intended_Course", "University_Tier",
			"Coapplicant_Income", "Guarantor_Networth", "CIBIL_Score",
			"Loan_Type", "Repayment_Capacity", "Loan_Term",
		},
		Computed: map[string]func(num func(string) float64) float64{
			"Repayment_Capacity": func(num func(string) float64) float64 {
				return num("Coapplicant_Income")*4 + num("Guarantor_Networth")*0.05 + num("CIBIL_Score")/2
			},
		},
		Encodings: map[string]map[string]float64{
			"Academic_Performance": {"Poor": 0, "Average": 1, "Good": 2, "Excellent": 3},
			"Intended_Course":      {"STEM": 0, "MBA": 1, "Medicine": 2, "Finance": 3, "Law": 4, "Arts": 5, "Other": 6},
			"University_Tier":      {"Tier1": 0, "Tier2": 1, "Tier3": 2},
			"Loan_Type":            {"Secured": 0, "Unsecured": 1},
		},
		Bounds: Bounds{
			AmountFloor: 0,
			AmountCeil:  30000000,
			RateFloor:   8,
			RateCeil:    16,
		},
		ArtifactFile: "education_loan_model.json",
	}
}
