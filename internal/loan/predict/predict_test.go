// internal/loan/predict/predict_test.go
package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/models"
	"loan-intake-engine/pkg/artifact"
)

// goldBundle predicts a fixed amount and rate regardless of input, which
// keeps the clamping assertions easy to read.
func goldBundle(amount, rate float64) *artifact.Bundle {
	return &artifact.Bundle{
		Product: "gold",
		Amount:  artifact.LinearHead{Intercept: amount, Coefficients: map[string]float64{"Age": 0}},
		Rate:    artifact.LinearHead{Intercept: rate, Coefficients: map[string]float64{"Age": 0}},
	}
}

func goldProfile(requested float64) map[string]interface{} {
	return map[string]interface{}{
		"Customer_Name":  "Asha Verma",
		"Customer_Email": "asha@example.com",
		"Customer_Phone": "9876543210",
		"Age":            float64(35),
		"Annual_Income":  float64(600000),
		"CIBIL_Score":    float64(720),
		"Occupation":     "Salaried",
		"Gold_Value":     float64(400000),
		"Loan_Amount":    requested,
		"Loan_Tenure":    float64(2),
	}
}

func newTestPredictor(b *artifact.Bundle) *Predictor {
	store := NewStore(logger.NewNoOpLogger())
	if b != nil {
		store.Put("gold", b)
	}
	return NewPredictor(store)
}

// ==========================
// Status derivation
// ==========================

func TestPredict_ApprovedOnInclusiveBoundary(t *testing.T) {
	def := product.Gold()

	tests := []struct {
		name      string
		predicted float64
		requested float64
		want      models.ApprovalStatus
	}{
		{"predicted above requested", 300000, 250000, models.StatusApproved},
		{"predicted equals requested", 250000, 250000, models.StatusApproved},
		{"predicted below requested", 200000, 250000, models.StatusPartialApproval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPredictor(goldBundle(tt.predicted, 12))

			result, err := p.Predict(def, goldProfile(tt.requested))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
			assert.InDelta(t, tt.requested, result.RequestedAmount, 1e-9)
		})
	}
}

// ==========================
// Output clamping
// ==========================

func TestPredict_AmountClampedToBounds(t *testing.T) {
	def := product.Gold()

	// Way above the product ceiling of 1 crore.
	p := newTestPredictor(goldBundle(50000000, 12))
	result, err := p.Predict(def, goldProfile(250000))
	require.NoError(t, err)
	// Collateral cap kicks in below the ceiling: 0.8 * 400000.
	assert.InDelta(t, 320000, result.EligibleAmount, 1e-9)

	// Below the product floor of 5000.
	p = newTestPredictor(goldBundle(-100000, 12))
	result, err = p.Predict(def, goldProfile(250000))
	require.NoError(t, err)
	assert.InDelta(t, 5000, result.EligibleAmount, 1e-9)
}

func TestPredict_CollateralCap(t *testing.T) {
	def := product.Gold()
	p := newTestPredictor(goldBundle(500000, 12))

	profile := goldProfile(250000)
	profile["Gold_Value"] = float64(300000)

	result, err := p.Predict(def, profile)
	require.NoError(t, err)
	assert.InDelta(t, 240000, result.EligibleAmount, 1e-9) // 0.8 * 300000
	assert.Equal(t, models.StatusPartialApproval, result.Status)
}

func TestPredict_RateClampedToBounds(t *testing.T) {
	def := product.Gold()

	p := newTestPredictor(goldBundle(250000, 40))
	result, err := p.Predict(def, goldProfile(250000))
	require.NoError(t, err)
	assert.InDelta(t, 24, result.InterestRate, 1e-9)

	p = newTestPredictor(goldBundle(250000, 2))
	result, err = p.Predict(def, goldProfile(250000))
	require.NoError(t, err)
	assert.InDelta(t, 8, result.InterestRate, 1e-9)
}

func TestPredict_RateRoundedToTwoDecimals(t *testing.T) {
	def := product.Gold()
	p := newTestPredictor(goldBundle(250000, 11.23456))

	result, err := p.Predict(def, goldProfile(250000))
	require.NoError(t, err)
	assert.InDelta(t, 11.23, result.InterestRate, 1e-9)
}

// ==========================
// Failure modes
// ==========================

func TestPredict_ModelUnavailable(t *testing.T) {
	p := newTestPredictor(nil)

	_, err := p.Predict(product.Gold(), goldProfile(250000))
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeModelUnavailable, stdErr.Code)
}

func TestPredict_FeatureBuildFailurePropagates(t *testing.T) {
	p := newTestPredictor(goldBundle(250000, 12))

	profile := goldProfile(250000)
	profile["Occupation"] = "Astronaut"

	_, err := p.Predict(product.Gold(), profile)
	assert.Error(t, err)
}

func TestStore_LoadDirSkipsBrokenArtifacts(t *testing.T) {
	store := NewStore(logger.NewNoOpLogger())
	store.LoadDir(t.TempDir(), product.NewRegistry())

	assert.False(t, store.Available("gold"))
	assert.Empty(t, store.AvailableProducts())
}
