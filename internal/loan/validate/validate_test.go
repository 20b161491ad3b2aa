// internal/loan/validate/validate_test.go
package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake-engine/internal/loan/product"
)

// ==========================
// Contact field validation
// ==========================

func TestField_Name(t *testing.T) {
	def := product.Personal()

	tests := []struct {
		name     string
		raw      interface{}
		accepted bool
	}{
		{"simple name", "Asha Verma", true},
		{"single word", "Asha", true},
		{"too short", "A", false},
		{"digits rejected", "Asha123", false},
		{"not a string", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Field(def, "Customer_Name", tt.raw)
			assert.Equal(t, tt.accepted, out.Accepted)
			if !tt.accepted {
				assert.Equal(t, product.RejectFormat, out.Category)
			}
		})
	}
}

func TestField_Email(t *testing.T) {
	def := product.Personal()

	out := Field(def, "Customer_Email", "asha@example.com")
	require.True(t, out.Accepted)
	assert.Equal(t, "asha@example.com", out.Value)

	out = Field(def, "Customer_Email", "not-an-email")
	assert.False(t, out.Accepted)
	assert.Equal(t, product.RejectFormat, out.Category)
}

func TestField_PhoneNormalization(t *testing.T) {
	def := product.Personal()

	tests := []struct {
		name     string
		raw      interface{}
		accepted bool
		want     string
	}{
		{"bare 10 digits", "9876543210", true, "9876543210"},
		{"with country code", "+91 98765 43210", true, "9876543210"},
		{"with dashes", "98765-43210", true, "9876543210"},
		{"too short", "12345", false, ""},
		{"wrong leading digit still 10 digits", "1234567890", true, "1234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Field(def, "Customer_Phone", tt.raw)
			assert.Equal(t, tt.accepted, out.Accepted)
			if tt.accepted {
				assert.Equal(t, tt.want, out.Value)
			}
		})
	}
}

// ==========================
// Numeric rules
// ==========================

func TestField_NumericRanges(t *testing.T) {
	reg := product.NewRegistry()

	tests := []struct {
		name     string
		prod     string
		field    string
		raw      interface{}
		accepted bool
		category product.RejectCategory
	}{
		{"personal age in range", "personal", "Age", float64(30), true, ""},
		{"personal age below floor", "personal", "Age", float64(19), false, product.RejectIneligible},
		{"personal age above ceiling", "personal", "Age", float64(70), false, product.RejectIneligible},
		{"home age boundary low ok", "home", "Age", float64(21), true, ""},
		{"home age boundary high ok", "home", "Age", float64(50), true, ""},
		{"education cibil below floor", "education", "CIBIL_Score", float64(500), false, product.RejectIneligible},
		{"education cibil at floor", "education", "CIBIL_Score", float64(650), true, ""},
		{"gold cibil 600 ok", "gold", "CIBIL_Score", float64(600), true, ""},
		{"gold cibil out of scale", "gold", "CIBIL_Score", float64(950), false, product.RejectOutOfRange},
		{"business revenue below minimum", "business", "Annual_Revenue", float64(400000), false, product.RejectIneligible},
		{"car salary floor", "car", "applicant_annual_salary", float64(250000), false, product.RejectIneligible},
		{"car tenure too long", "car", "Tenure", float64(8), false, product.RejectOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := reg.Get(tt.prod)
			require.True(t, ok)

			out := Field(def, tt.field, tt.raw)
			assert.Equal(t, tt.accepted, out.Accepted)
			if !tt.accepted {
				assert.Equal(t, tt.category, out.Category)
			}
		})
	}
}

func TestField_IneligibleMarker(t *testing.T) {
	def := product.Personal()

	out := Field(def, "CIBIL_Score", float64(500))
	require.False(t, out.Accepted)
	assert.True(t, out.Ineligible())
	assert.Contains(t, out.Message, "INELIGIBLE")
}

func TestField_CurrencyStringsParsed(t *testing.T) {
	def := product.Gold()

	tests := []struct {
		name string
		raw  interface{}
		want float64
	}{
		{"plain number string", "500000", 500000},
		{"with commas", "5,00,000", 500000},
		{"lakh suffix", "5 lakh", 500000},
		{"crore suffix", "1.2 crore", 12000000},
		{"rupee sign", "₹3,00,000", 300000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Field(def, "Gold_Value", tt.raw)
			require.True(t, out.Accepted, "message: %s", out.Message)
			assert.InDelta(t, tt.want, out.Value.(float64), 0.001)
		})
	}
}

func TestField_NumericParseFailure(t *testing.T) {
	def := product.Personal()

	out := Field(def, "Annual_Income", "plenty")
	require.False(t, out.Accepted)
	assert.Equal(t, product.RejectFormat, out.Category)
	assert.Contains(t, out.Message, "annual income")
}

// ==========================
// Enum and yes/no fields
// ==========================

func TestField_EnumCanonicalization(t *testing.T) {
	def := product.Business()

	tests := []struct {
		name     string
		field    string
		raw      string
		accepted bool
		want     string
	}{
		{"exact match", "Business_Type", "Retail", true, "Retail"},
		{"case insensitive", "Business_Type", "retail", true, "Retail"},
		{"synonym", "Business_Type", "factory", true, "Manufacturing"},
		{"unknown value", "Business_Type", "Farming", false, ""},
		{"yes no accepted", "Has_Collateral", "yes", true, "Yes"},
		{"yes no rejected", "Has_Collateral", "maybe", false, ""},
		{"industry synonym", "Industry_Risk_Rating", "software", true, "IT Services"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Field(def, tt.field, tt.raw)
			assert.Equal(t, tt.accepted, out.Accepted)
			if tt.accepted {
				assert.Equal(t, tt.want, out.Value)
			} else {
				assert.Equal(t, product.RejectOutOfRange, out.Category)
			}
		})
	}
}

// ==========================
// Cross-field rules
// ==========================

func TestCrossFields_BusinessProfitVsRevenue(t *testing.T) {
	def := product.Business()

	out := CrossFields(def, map[string]interface{}{
		"Net_Profit":     float64(600000),
		"Annual_Revenue": float64(500000),
	})
	require.False(t, out.Accepted)
	assert.Contains(t, out.Message, "Net profit cannot be equal to or greater than annual revenue")

	out = CrossFields(def, map[string]interface{}{
		"Net_Profit":     float64(300000),
		"Annual_Revenue": float64(500000),
	})
	assert.True(t, out.Accepted)
}

func TestCrossFields_SkippedWhenFieldMissing(t *testing.T) {
	def := product.Business()

	out := CrossFields(def, map[string]interface{}{
		"Net_Profit": float64(600000),
	})
	assert.True(t, out.Accepted)
}

func TestCrossFields_HomeLoanVsPropertyValue(t *testing.T) {
	def := product.Home()

	out := CrossFields(def, map[string]interface{}{
		"Loan_amount_requested": float64(9000000),
		"Property_value":        float64(8000000),
	})
	require.False(t, out.Accepted)

	out = CrossFields(def, map[string]interface{}{
		"Loan_amount_requested": float64(6000000),
		"Property_value":        float64(8000000),
	})
	assert.True(t, out.Accepted)
}
