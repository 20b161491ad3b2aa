// internal/common/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"loan-intake-engine/internal/common/config"
	"loan-intake-engine/internal/common/logger"
)

var (
	ErrLLMTimeout          = errors.New("LLM_TIMEOUT")
	ErrLLMCompletionFailed = errors.New("LLM_COMPLETION_FAILED")
	ErrLLMNotConfigured    = errors.New("LLM_NOT_CONFIGURED")
)

// Message is one role-tagged turn handed to the text-generation collaborator.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to the external text-generation service. All failures are
// sentinel-wrapped so callers can fall back deterministically.
type Client struct {
	config *config.LLMConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg *config.LLMConfig, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			// No client-level timeout - rely only on context
		},
		logger: log.WithFields(map[string]interface{}{
			"component": "llm-client",
		}),
	}
}

// Enabled reports whether a collaborator endpoint is configured.
func (c *Client) Enabled() bool {
	return c.config != nil && c.config.Enabled()
}

// Complete sends the turns and returns the raw completion text.
// Temperature 0 is the extraction mode; the configured temperature is the
// conversational mode.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if !c.Enabled() {
		return "", ErrLLMNotConfigured
	}

	// The whole call, retries included, is bounded by the configured
	// timeout so a slow collaborator degrades to the fallback path.
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.GetDuration(c.config.Timeout))
		defer cancel()
	}

	requestBody := map[string]interface{}{
		"model":       c.config.Model,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  c.config.MaxTokens,
	}

	body, _ := json.Marshal(requestBody)
	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMCompletionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Apply exponential backoff
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrLLMTimeout
			}
		}

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return "", ErrLLMTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrLLMTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrLLMCompletionFailed, lastErr)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrLLMCompletionFailed)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrLLMCompletionFailed, err)
	}

	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrLLMCompletionFailed)
	}

	c.logger.Debug("completion received", map[string]interface{}{
		"turns":       len(messages),
		"temperature": temperature,
	})

	return apiResponse.Choices[0].Message.Content, nil
}
