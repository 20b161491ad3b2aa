// internal/loan/extract/llm_test.go
package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"loan-intake-engine/internal/common/llm"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/product"
)

type fakeCompleter struct {
	enabled bool
	reply   string
	err     error
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }

func (f *fakeCompleter) Complete(_ context.Context, _ []llm.Message, _ float64) (string, error) {
	return f.reply, f.err
}

func testLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

// ==========================
// Reply parsing
// ==========================

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{"bare object", `{"Age": 30}`, `{"Age": 30}`, true},
		{"with prose around", "Sure! Here you go: {\"Age\": 30}. Anything else?", `{"Age": 30}`, true},
		{"nested braces", `{"a": {"b": 1}}`, `{"a": {"b": 1}}`, true},
		{"brace inside string", `{"name": "a{b}c"}`, `{"name": "a{b}c"}`, true},
		{"no object", "I could not find anything.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := firstJSONObject(tt.input)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCandidates_RejectsUnknownFields(t *testing.T) {
	def := product.Personal()

	_, err := parseCandidates(def, `{"Age": 30, "Favorite_Color": "blue"}`)
	assert.Error(t, err)

	got, err := parseCandidates(def, `{"Age": 30, "Customer_Name": "Asha"}`)
	require.NoError(t, err)
	assert.Equal(t, float64(30), got["Age"])
	assert.Equal(t, "Asha", got["Customer_Name"])
}

func TestParseCandidates_EmptyObject(t *testing.T) {
	got, err := parseCandidates(product.Personal(), `{}`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// ==========================
// Chain fallback behavior
// ==========================

func TestChain_FallsBackWhenLLMDisabled(t *testing.T) {
	chain := NewChain(&fakeCompleter{enabled: false}, testLogger(t))

	got := chain.Extract(context.Background(), product.Personal(), nil, "my name is Asha")
	assert.Equal(t, "Asha", got["Customer_Name"])
}

func TestChain_FallsBackOnLLMError(t *testing.T) {
	chain := NewChain(&fakeCompleter{enabled: true, err: errors.New("upstream timeout")}, testLogger(t))

	got := chain.Extract(context.Background(), product.Personal(), nil, "my name is Asha")
	assert.Equal(t, "Asha", got["Customer_Name"])
}

func TestChain_UsesLLMReplyWhenValid(t *testing.T) {
	chain := NewChain(&fakeCompleter{enabled: true, reply: `{"Age": 32}`}, testLogger(t))

	got := chain.Extract(context.Background(), product.Personal(), nil, "I am thirty-two")
	assert.Equal(t, float64(32), got["Age"])
}
