// internal/loan/feature/feature.go
package feature

import (
	"fmt"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/loan/validate"
)

// Build turns a completed profile into the model's feature vector. Every
// column of the product's feature schema must resolve, in order, from one
// of: a computed formula, the profile itself (encoding categorical values),
// a derived tier rule, or a schema default. Anything unresolvable aborts
// the build.
//
// encoderOverrides come from the model artifact and take precedence over
// the product's static encodings, keeping inference aligned with how the
// model was actually trained.
func Build(def *product.Definition, encoderOverrides map[string]map[string]float64, profile map[string]interface{}) (map[string]float64, error) {
	num := func(name string) float64 {
		v, _ := validate.ToFloat(profile[name])
		return v
	}

	features := make(map[string]float64, len(def.FeatureColumns))
	for _, col := range def.FeatureColumns {
		v, err := resolve(def, encoderOverrides, profile, num, col)
		if err != nil {
			return nil, commonerrors.NewFeatureBuildError(
				fmt.Sprintf("product %s, column %s: %v", def.ID, col, err))
		}
		features[col] = v
	}
	return features, nil
}

func resolve(
	def *product.Definition,
	overrides map[string]map[string]float64,
	profile map[string]interface{},
	num func(string) float64,
	col string,
) (float64, error) {
	if formula, ok := def.Computed[col]; ok {
		return formula(num), nil
	}

	if raw, ok := profile[col]; ok {
		return encodeValue(def, overrides, col, raw)
	}

	// A derived column may be backed only by its source value.
	if rule, ok := def.DerivedFor(col); ok {
		if src, ok := profile[rule.Source]; ok {
			srcVal, err := validate.ToFloat(src)
			if err != nil {
				return 0, fmt.Errorf("derived source %s: %w", rule.Source, err)
			}
			return encodeValue(def, overrides, col, rule.Apply(srcVal))
		}
	}

	if d, ok := def.Defaults[col]; ok {
		return d, nil
	}

	return 0, fmt.Errorf("no value available")
}

func encodeValue(def *product.Definition, overrides map[string]map[string]float64, col string, raw interface{}) (float64, error) {
	s, isString := raw.(string)
	if !isString {
		v, err := validate.ToFloat(raw)
		if err != nil {
			return 0, err
		}
		return v, nil
	}

	if table, ok := overrides[col]; ok {
		if v, ok := table[s]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("value %q not in artifact encoder", s)
	}
	if table, ok := def.Encodings[col]; ok {
		if v, ok := table[s]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("value %q not in encoding table", s)
	}

	// A bare string with no encoder may still be numeric text.
	v, err := validate.ToFloat(s)
	if err != nil {
		return 0, fmt.Errorf("categorical value %q has no encoder", s)
	}
	return v, nil
}
