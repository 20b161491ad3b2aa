// internal/loan/extract/llm.go
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"loan-intake-engine/internal/common/llm"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/models"
)

// historyWindow is how many trailing conversation turns get sent with the
// extraction prompt. Older turns rarely carry new field values and only
// inflate token usage.
const historyWindow = 6

// LLMExtractor asks the language model to pull structured field values out
// of the utterance, at temperature 0 for determinism.
type LLMExtractor struct {
	client Completer
	logger logger.Logger
}

func NewLLMExtractor(client Completer, log logger.Logger) *LLMExtractor {
	return &LLMExtractor{client: client, logger: log}
}

// Available reports whether the backing LLM client is configured.
func (e *LLMExtractor) Available() bool {
	return e.client != nil && e.client.Enabled()
}

func (e *LLMExtractor) Extract(ctx context.Context, def *product.Definition, history []models.Message, utterance string) (map[string]interface{}, error) {
	messages := []llm.Message{
		{Role: "system", Content: buildExtractionPrompt(def)},
	}
	start := len(history) - historyWindow
	if start < 0 {
		start = 0
	}
	for _, m := range history[start:] {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: utterance})

	raw, err := e.client.Complete(ctx, messages, 0)
	if err != nil {
		return nil, err
	}

	candidates, err := parseCandidates(def, raw)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func buildExtractionPrompt(def *product.Definition) string {
	var b strings.Builder
	b.WriteString("You are a data extraction assistant for a ")
	b.WriteString(def.DisplayName)
	b.WriteString(" application.\n")
	b.WriteString("Extract any of the following fields mentioned in the user's latest message:\n")
	for _, name := range def.Required {
		spec, ok := def.Field(name)
		if !ok {
			continue
		}
		b.WriteString("- ")
		b.WriteString(name)
		if len(spec.Allowed) > 0 {
			b.WriteString(" (one of: ")
			b.WriteString(strings.Join(spec.Allowed, ", "))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with a single JSON object mapping field names to values. ")
	b.WriteString("Use numbers for numeric fields (convert lakh to x100000 and crore to x10000000). ")
	b.WriteString("Include only fields the user actually stated. If nothing was stated, respond with {}.")
	return b.String()
}

// parseCandidates locates the first balanced JSON object in the model's
// reply, validates it against the product's field vocabulary, and drops
// anything outside it.
func parseCandidates(def *product.Definition, raw string) (map[string]interface{}, error) {
	payload, ok := firstJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("no JSON object in LLM reply")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(candidateSchema(def)),
		gojsonschema.NewStringLoader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var issues []string
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return nil, fmt.Errorf("LLM reply failed schema check: %s", strings.Join(issues, "; "))
	}

	var candidates map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// candidateSchema restricts the extraction payload to known field names
// with scalar values.
func candidateSchema(def *product.Definition) map[string]interface{} {
	properties := map[string]interface{}{}
	for _, name := range def.Required {
		properties[name] = map[string]interface{}{
			"type": []string{"string", "number"},
		}
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

// firstJSONObject scans for the first balanced {...} block, respecting
// string literals so braces inside values do not break the count.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
