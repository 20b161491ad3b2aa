// internal/loan/extract/extract.go
package extract

import (
	"context"

	"loan-intake-engine/internal/common/llm"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/common/metrics"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/models"
)

// Extractor pulls candidate field values out of a user utterance. The
// returned map is best-effort: keys are field names from the product's
// vocabulary, values are raw strings or numbers that still need validation.
// Extraction never fails the turn; an empty map means nothing was found.
type Extractor interface {
	Extract(ctx context.Context, def *product.Definition, history []models.Message, utterance string) map[string]interface{}
}

// Completer is the slice of the LLM client the extractor needs.
type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, messages []llm.Message, temperature float64) (string, error)
}

// Chain tries the LLM extractor first and falls back to deterministic
// pattern matching when the LLM is disabled, errors, or returns a payload
// that does not parse.
type Chain struct {
	llm      *LLMExtractor
	fallback *PatternExtractor
	logger   logger.Logger
}

// NewChain wires the two extraction strategies together.
func NewChain(client Completer, log logger.Logger) *Chain {
	return &Chain{
		llm:      NewLLMExtractor(client, log),
		fallback: NewPatternExtractor(),
		logger:   log,
	}
}

func (c *Chain) Extract(ctx context.Context, def *product.Definition, history []models.Message, utterance string) map[string]interface{} {
	if c.llm.Available() {
		candidates, err := c.llm.Extract(ctx, def, history, utterance)
		if err == nil {
			return candidates
		}
		c.logger.Warn("LLM extraction failed, using pattern fallback", map[string]interface{}{
			"product": def.ID,
			"error":   err.Error(),
		})
	}

	metrics.ExtractionFallbacks.WithLabelValues(def.ID).Inc()
	return c.fallback.Extract(def, history, utterance)
}
