// internal/loan/engine/responder.go
package engine

import (
	"context"
	"fmt"
	"strings"

	"loan-intake-engine/internal/common/llm"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/extract"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/models"
)

// replyHistoryWindow bounds how much conversation is replayed to the LLM
// when phrasing a follow-up.
const replyHistoryWindow = 8

// Responder phrases the assistant's side of the conversation. With an LLM
// configured it generates conversational replies; without one it falls
// back to deterministic templates built from the field's ask phrase.
type Responder struct {
	client extract.Completer
	temp   float64
	logger logger.Logger
}

func NewResponder(client extract.Completer, temperature float64, log logger.Logger) *Responder {
	return &Responder{client: client, temp: temperature, logger: log}
}

func (r *Responder) llmReady() bool {
	return r.client != nil && r.client.Enabled()
}

// Greeting opens a conversation for a product.
func (r *Responder) Greeting(ctx context.Context, def *product.Definition) string {
	if !r.llmReady() {
		return def.FallbackGreeting
	}

	reply, err := r.client.Complete(ctx, []llm.Message{
		{Role: "system", Content: def.SystemPrompt},
		{Role: "user", Content: "Greet me and ask for the first detail you need."},
	}, r.temp)
	if err != nil || strings.TrimSpace(reply) == "" {
		r.logger.Warn("greeting generation failed, using fallback", map[string]interface{}{
			"product": def.ID,
		})
		return def.FallbackGreeting
	}
	return reply
}

// FollowUp asks for the next missing field.
func (r *Responder) FollowUp(ctx context.Context, def *product.Definition, sess *models.Session, missing []string) string {
	spec, ok := nextAskable(def, missing)
	if !ok {
		return "Could you share the remaining details of your application?"
	}

	fallback := fmt.Sprintf("Thanks! Could you tell me %s?", spec.Ask)
	if !r.llmReady() {
		return fallback
	}

	messages := []llm.Message{
		{Role: "system", Content: def.SystemPrompt},
	}
	start := len(sess.Conversation) - replyHistoryWindow
	if start < 0 {
		start = 0
	}
	for _, m := range sess.Conversation[start:] {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: fmt.Sprintf("Acknowledge the user's last message briefly, then ask for %s. Ask for nothing else.", spec.Ask),
	})

	reply, err := r.client.Complete(ctx, messages, r.temp)
	if err != nil || strings.TrimSpace(reply) == "" {
		return fallback
	}
	return reply
}

// nextAskable resolves the first missing field to a spec the user can
// actually answer, mapping derived targets back to their source field.
func nextAskable(def *product.Definition, missing []string) (product.FieldSpec, bool) {
	for _, name := range missing {
		if spec, ok := def.Field(name); ok {
			return spec, true
		}
		if rule, ok := def.DerivedFor(name); ok {
			if spec, ok := def.Field(rule.Source); ok {
				return spec, true
			}
		}
	}
	return product.FieldSpec{}, false
}
