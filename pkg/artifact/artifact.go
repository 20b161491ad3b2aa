// pkg/artifact/artifact.go
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LinearHead is one regression head of a trained model: a weighted sum over
// named feature columns plus an intercept.
type LinearHead struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// Score evaluates the head against a feature vector. Columns missing from
// the vector contribute zero.
func (h LinearHead) Score(features map[string]float64) float64 {
	sum := h.Intercept
	for col, w := range h.Coefficients {
		sum += w * features[col]
	}
	return sum
}

// Scaler holds per-column standardization parameters applied before
// scoring, matching how the model was trained.
type Scaler struct {
	Mean  map[string]float64 `json:"mean"`
	Scale map[string]float64 `json:"scale"`
}

// Apply standardizes a feature vector. Columns without scaler entries pass
// through unchanged.
func (s *Scaler) Apply(features map[string]float64) map[string]float64 {
	if s == nil {
		return features
	}
	scaled := make(map[string]float64, len(features))
	for col, v := range features {
		if scale, ok := s.Scale[col]; ok && scale != 0 {
			scaled[col] = (v - s.Mean[col]) / scale
		} else {
			scaled[col] = v
		}
	}
	return scaled
}

// Bundle is a serialized model artifact for one loan product: two linear
// heads (sanctioned amount and interest rate), optional categorical
// encoder overrides, and an optional feature scaler.
type Bundle struct {
	Product  string                        `json:"product"`
	Version  string                        `json:"version"`
	Amount   LinearHead                    `json:"amount"`
	Rate     LinearHead                    `json:"rate"`
	Encoders map[string]map[string]float64 `json:"encoders"`
	Scaler   *Scaler                       `json:"scaler"`
}

// Load reads and validates a model bundle from disk. Any structural
// problem is reported at load time so a bad artifact surfaces at startup,
// not on the first prediction.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", filepath.Base(path), err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", filepath.Base(path), err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", filepath.Base(path), err)
	}
	return &b, nil
}

func (b *Bundle) validate() error {
	if b.Product == "" {
		return fmt.Errorf("missing product id")
	}
	if len(b.Amount.Coefficients) == 0 {
		return fmt.Errorf("amount head has no coefficients")
	}
	if len(b.Rate.Coefficients) == 0 {
		return fmt.Errorf("rate head has no coefficients")
	}
	return nil
}
