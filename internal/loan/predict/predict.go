// internal/loan/predict/predict.go
package predict

import (
	"math"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/loan/feature"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/loan/validate"
	"loan-intake-engine/internal/models"
)

// Predictor scores completed profiles against the loaded model bundles and
// applies the product's hard output bounds.
type Predictor struct {
	store *Store
}

func NewPredictor(store *Store) *Predictor {
	return &Predictor{store: store}
}

// Predict builds the feature vector, runs both regression heads, clamps
// the outputs into the product's sane range, and derives the approval
// status by comparing the sanctioned amount with what was requested.
func (p *Predictor) Predict(def *product.Definition, profile map[string]interface{}) (*models.PredictionResult, error) {
	bundle, ok := p.store.Bundle(def.ID)
	if !ok {
		return nil, commonerrors.NewModelUnavailableError(def.ID)
	}

	features, err := feature.Build(def, bundle.Encoders, profile)
	if err != nil {
		return nil, err
	}

	scaled := bundle.Scaler.Apply(features)
	amount := bundle.Amount.Score(scaled)
	rate := bundle.Rate.Score(scaled)

	amount = clampAmount(def, profile, amount)
	rate = clamp(rate, def.Bounds.RateFloor, def.Bounds.RateCeil)

	requested, _ := validate.ToFloat(profile[def.RequestedField])

	// Full approval on the inclusive boundary: getting exactly what was
	// asked for is an approval, not a partial one.
	status := models.StatusPartialApproval
	if amount >= requested {
		status = models.StatusApproved
	}

	return &models.PredictionResult{
		EligibleAmount:  math.Round(amount),
		InterestRate:    math.Round(rate*100) / 100,
		RequestedAmount: requested,
		Status:          status,
	}, nil
}

func clampAmount(def *product.Definition, profile map[string]interface{}, amount float64) float64 {
	b := def.Bounds
	amount = clamp(amount, b.AmountFloor, b.AmountCeil)

	if b.CollateralField != "" {
		if collateral, err := validate.ToFloat(profile[b.CollateralField]); err == nil {
			amount = math.Min(amount, b.CollateralRatio*collateral)
		}
	}
	return amount
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
