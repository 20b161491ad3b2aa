// internal/loan/validate/number.go
package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Indian currency shorthand multipliers. Keys must be lowercase.
var unitMultipliers = []struct {
	suffix string
	factor float64
}{
	{"crores", 10000000},
	{"crore", 10000000},
	{"cr", 10000000},
	{"lakhs", 100000},
	{"lakh", 100000},
	{"lacs", 100000},
	{"lac", 100000},
	{"l", 100000},
	{"k", 1000},
}

var numberToken = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ToFloat coerces a raw extracted value into a float64. Strings may carry
// commas, a rupee sign, and Indian unit suffixes ("5 lakh", "1.2 crore").
func ToFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return parseNumberString(v)
	default:
		return 0, fmt.Errorf("cannot interpret %T as a number", raw)
	}
}

func parseNumberString(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.TrimPrefix(s, "rs.")
	s = strings.TrimPrefix(s, "rs")
	s = strings.TrimSpace(s)

	factor := 1.0
	for _, u := range unitMultipliers {
		if strings.HasSuffix(s, u.suffix) {
			trimmed := strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			if numberToken.MatchString(trimmed) {
				s = trimmed
				factor = u.factor
			}
			break
		}
	}

	if !numberToken.MatchString(s) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v * factor, nil
}
