// internal/loan/validate/validate.go
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"loan-intake-engine/internal/loan/product"
)

// Precompiled validation patterns
var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	phoneStrip = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+91", "")
)

// Outcome is the result of validating one candidate value. Accepted carries
// the canonical value to merge; Rejected carries a category and a
// user-visible message. Hard ineligibility messages contain the literal
// "INELIGIBLE" marker.
type Outcome struct {
	Accepted bool
	Value    interface{}
	Category product.RejectCategory
	Message  string
}

func accepted(v interface{}) Outcome {
	return Outcome{Accepted: true, Value: v}
}

func rejected(cat product.RejectCategory, msg string) Outcome {
	return Outcome{Category: cat, Message: msg}
}

// Ineligible reports whether the outcome is a hard, non-retryable rejection.
func (o Outcome) Ineligible() bool {
	return !o.Accepted && o.Category == product.RejectIneligible
}

// Field validates a single raw candidate against the product's rule table.
// Pure: never mutates anything; the caller merges only on Accepted.
func Field(def *product.Definition, name string, raw interface{}) Outcome {
	spec, ok := def.Field(name)
	if !ok {
		return rejected(product.RejectFormat, fmt.Sprintf("Unknown field %q for %s.", name, def.DisplayName))
	}

	switch spec.Kind {
	case product.KindName:
		return validateName(raw)
	case product.KindEmail:
		return validateEmail(raw)
	case product.KindPhone:
		return validatePhone(raw)
	case product.KindNumber, product.KindCurrency:
		return validateNumeric(spec, raw)
	case product.KindEnum, product.KindYesNo:
		return validateEnum(spec, raw)
	default:
		return rejected(product.RejectFormat, fmt.Sprintf("Cannot validate field %q.", name))
	}
}

// CrossFields evaluates every cross-field rule whose participating fields
// are all present, and combines all violations found in this pass into one
// message.
func CrossFields(def *product.Definition, profile map[string]interface{}) Outcome {
	num := func(name string) float64 {
		v, _ := ToFloat(profile[name])
		return v
	}

	var violations []string
	for _, rule := range def.CrossRules {
		allPresent := true
		for _, f := range rule.Fields {
			if _, ok := profile[f]; !ok {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}
		if msg := rule.Check(num); msg != "" {
			violations = append(violations, msg)
		}
	}

	if len(violations) > 0 {
		return rejected(product.RejectOutOfRange, strings.Join(violations, " "))
	}
	return accepted(nil)
}

func validateName(raw interface{}) Outcome {
	s, ok := raw.(string)
	if !ok {
		return rejected(product.RejectFormat, "Please provide your name as text.")
	}
	s = strings.TrimSpace(s)
	if !nameRegex.MatchString(s) {
		return rejected(product.RejectFormat, "Please provide your full name (2-50 letters).")
	}
	return accepted(s)
}

func validateEmail(raw interface{}) Outcome {
	s, ok := raw.(string)
	if !ok || !emailRegex.MatchString(strings.TrimSpace(s)) {
		return rejected(product.RejectFormat, "Please provide a valid email address (e.g., name@example.com).")
	}
	return accepted(strings.TrimSpace(s))
}

func validatePhone(raw interface{}) Outcome {
	s := fmt.Sprintf("%v", raw)
	cleaned := phoneStrip.Replace(strings.TrimSpace(s))
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) != 10 || !isDigits(cleaned) {
		return rejected(product.RejectFormat, "Please provide a valid 10-digit phone number (e.g., 9876543210).")
	}
	return accepted(cleaned)
}

func validateNumeric(spec product.FieldSpec, raw interface{}) Outcome {
	v, err := ToFloat(raw)
	if err != nil {
		display := strings.ToLower(strings.ReplaceAll(spec.Name, "_", " "))
		return rejected(product.RejectFormat, fmt.Sprintf("Please provide a valid %s in the correct format.", display))
	}

	for _, rule := range spec.Rules {
		if rule.Fires(v) {
			return rejected(rule.Category, rule.Message)
		}
	}
	return accepted(v)
}

func validateEnum(spec product.FieldSpec, raw interface{}) Outcome {
	s, ok := raw.(string)
	if !ok {
		return rejected(product.RejectOutOfRange, spec.EnumMsg)
	}
	s = strings.TrimSpace(s)

	for _, allowed := range spec.Allowed {
		if strings.EqualFold(s, allowed) {
			return accepted(allowed)
		}
	}
	if canonical, ok := spec.Synonym[strings.ToLower(s)]; ok {
		return accepted(canonical)
	}
	return rejected(product.RejectOutOfRange, spec.EnumMsg)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
