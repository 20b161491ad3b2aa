// internal/common/llm/client_test.go
package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake-engine/internal/common/config"
	"loan-intake-engine/internal/common/logger"
)

func newTestClient(baseURL string, timeoutMs int) *Client {
	return NewClient(&config.LLMConfig{
		BaseURL:   baseURL,
		Model:     "test-model",
		Timeout:   timeoutMs,
		MaxTokens: 100,
	}, logger.NewNoOpLogger())
}

// ==========================
// Completion behavior
// ==========================

func TestClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"hello there"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5000)
	out, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
}

func TestClient_CompleteNotConfigured(t *testing.T) {
	c := newTestClient("", 5000)
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0)
	assert.ErrorIs(t, err, ErrLLMNotConfigured)
}

// ==========================
// Timeout enforcement
// ==========================

func TestClient_CompleteTimesOutOnSlowServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
			w.Write([]byte(`{"choices":[{"message":{"content":"too late"}}]}`))
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 100)

	start := time.Now()
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrLLMTimeout)
	assert.Less(t, elapsed, time.Second, "call must give up at the configured timeout, not wait out the server")
}

func TestClient_CompleteRespectsCallerDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	// Generous configured timeout; the caller's tighter deadline wins.
	c := newTestClient(srv.URL, 30000)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Complete(ctx, []Message{{Role: "user", Content: "hi"}}, 0)

	assert.ErrorIs(t, err, ErrLLMTimeout)
	assert.Less(t, time.Since(start), time.Second)
}
