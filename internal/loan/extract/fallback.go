// internal/loan/extract/fallback.go
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/models"
)

// Deterministic extraction patterns, used when the LLM is unavailable.
var (
	nameIntroRegex = regexp.MustCompile(`(?i)\b(?:my name is|call me|this is|i am|i'm)\s+([a-zA-Z]+(?:\s+[a-zA-Z]+){0,3})`)
	bareNameRegex  = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	phoneRegex     = regexp.MustCompile(`(?:\+?91[-\s]?)?([6-9]\d{9})\b`)
	emailRegex     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	ageRegex       = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:years?\s*old|yrs?\s*old|years?\s+of\s+age)\b`)
	amountRegex    = regexp.MustCompile(`(?i)(?:₹|rs\.?\s*)?(\d+(?:,\d+)*(?:\.\d+)?)\s*(crores?|cr|lakhs?|lacs?|lac|k)?\b`)
	yesRegex       = regexp.MustCompile(`(?i)\b(?:yes|yeah|yep|sure|i do|i have)\b`)
	noRegex        = regexp.MustCompile(`(?i)\b(?:no|nope|i don't|i do not|none)\b`)
)

// Words that follow "i am" without introducing a name.
var nameStopWords = map[string]bool{
	"looking": true, "applying": true, "interested": true, "planning": true,
	"trying": true, "going": true, "asking": true, "here": true, "ready": true,
	"sorry": true, "not": true, "a": true, "an": true, "the": true,
	"currently": true, "self": true, "salaried": true, "retired": true,
	"married": true, "single": true, "unemployed": true, "employed": true,
}

var unitFactors = map[string]float64{
	"crore": 10000000, "crores": 10000000, "cr": 10000000,
	"lakh": 100000, "lakhs": 100000, "lac": 100000, "lacs": 100000,
	"k": 1000,
}

// PatternExtractor mines a single utterance with regular expressions and
// keyword tables. It is intentionally conservative: a value is proposed
// only when the pattern is unambiguous or the assistant just asked for
// that specific field.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

func (p *PatternExtractor) Extract(def *product.Definition, history []models.Message, utterance string) map[string]interface{} {
	candidates := map[string]interface{}{}
	asked := lastAskedField(def, history)

	text := utterance

	if email := emailRegex.FindString(text); email != "" {
		if _, ok := def.Field("Customer_Email"); ok {
			candidates["Customer_Email"] = email
		}
		text = strings.Replace(text, email, " ", 1)
	}

	if m := phoneRegex.FindStringSubmatch(text); m != nil {
		if _, ok := def.Field("Customer_Phone"); ok {
			candidates["Customer_Phone"] = m[1]
		}
		text = strings.Replace(text, m[0], " ", 1)
	}

	if name, ok := extractName(def, asked, text); ok {
		candidates["Customer_Name"] = name
	}

	if m := ageRegex.FindStringSubmatch(text); m != nil {
		if _, ok := def.Field("Age"); ok {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				candidates["Age"] = v
			}
		}
		text = strings.Replace(text, m[0], " ", 1)
	}

	for name, value := range extractEnums(def, text) {
		candidates[name] = value
	}

	if asked != "" {
		if spec, ok := def.Field(asked); ok {
			if _, taken := candidates[asked]; !taken {
				if v, found := answerForAsked(spec, text); found {
					candidates[asked] = v
				}
			}
		}
	}

	return candidates
}

// extractName handles both explicit introductions ("my name is Asha") and
// a bare name given directly after the assistant asked for one.
func extractName(def *product.Definition, asked, text string) (string, bool) {
	if _, ok := def.Field("Customer_Name"); !ok {
		return "", false
	}

	if m := nameIntroRegex.FindStringSubmatch(text); m != nil {
		name := normalizeName(truncateAtConnective(m[1]))
		if name != "" && !nameStopWords[strings.ToLower(strings.Fields(name)[0])] {
			return name, true
		}
	}

	if asked == "Customer_Name" {
		trimmed := strings.TrimSpace(text)
		if bareNameRegex.MatchString(trimmed) {
			return normalizeName(trimmed), true
		}
	}
	return "", false
}

// truncateAtConnective cuts a greedy name capture at the first word that
// starts a new clause ("Asha and I am 30" -> "Asha").
func truncateAtConnective(s string) string {
	connectives := map[string]bool{"and": true, "i": true, "my": true, "is": true, "from": true, "aged": true}
	var kept []string
	for _, w := range strings.Fields(s) {
		if connectives[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func normalizeName(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}

// extractEnums scans for allowed values and synonyms of every enum field.
// Longer phrases win so "self employed" is not shadowed by "employed".
func extractEnums(def *product.Definition, text string) map[string]string {
	lower := strings.ToLower(text)
	found := map[string]string{}

	for _, name := range def.Required {
		spec, ok := def.Field(name)
		if !ok || (spec.Kind != product.KindEnum) {
			continue
		}

		bestLen := 0
		bestValue := ""
		for _, allowed := range spec.Allowed {
			if containsPhrase(lower, strings.ToLower(allowed)) && len(allowed) > bestLen {
				bestLen, bestValue = len(allowed), allowed
			}
		}
		for syn, canonical := range spec.Synonym {
			if containsPhrase(lower, syn) && len(syn) > bestLen {
				bestLen, bestValue = len(syn), canonical
			}
		}
		if bestValue != "" {
			found[name] = bestValue
		}
	}
	return found
}

// containsPhrase is substring search with word boundaries, so a short
// synonym like "it" does not fire inside "city".
func containsPhrase(text, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		leftOK := idx == 0 || !isLetter(text[idx-1])
		rightOK := end == len(text) || !isLetter(text[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// answerForAsked interprets the utterance as a direct reply to the field
// the assistant just requested.
func answerForAsked(spec product.FieldSpec, text string) (interface{}, bool) {
	switch spec.Kind {
	case product.KindYesNo:
		switch {
		case noRegex.MatchString(text):
			return "No", true
		case yesRegex.MatchString(text):
			return "Yes", true
		}
		return nil, false
	case product.KindNumber, product.KindCurrency:
		return findAmount(text)
	default:
		return nil, false
	}
}

// findAmount returns the first numeric mention, applying Indian unit
// suffixes like lakh and crore.
func findAmount(text string) (interface{}, bool) {
	m := amountRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	if factor, ok := unitFactors[strings.ToLower(m[2])]; ok {
		v *= factor
	}
	return v, true
}

// lastAskedField maps the most recent assistant turn back to the field it
// requested, by matching the field's ask phrase. Longest match wins when
// phrases overlap.
func lastAskedField(def *product.Definition, history []models.Message) string {
	var lastAssistant string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "assistant" {
			lastAssistant = strings.ToLower(history[i].Content)
			break
		}
	}
	if lastAssistant == "" {
		return ""
	}

	bestLen := 0
	bestField := ""
	for _, name := range def.Required {
		spec, ok := def.Field(name)
		if !ok || spec.Ask == "" {
			continue
		}
		ask := strings.ToLower(spec.Ask)
		if strings.Contains(lastAssistant, ask) && len(ask) > bestLen {
			bestLen, bestField = len(ask), name
		}
	}
	return bestField
}
