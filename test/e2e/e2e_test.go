// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake-engine/internal/common/config"
	"loan-intake-engine/internal/common/database"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/loan/engine"
	"loan-intake-engine/internal/loan/extract"
	"loan-intake-engine/internal/loan/predict"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/loan/session"
	"loan-intake-engine/internal/server"
)

// goldArtifact is a minimal but structurally complete model bundle, written
// to disk so the whole load path is exercised.
const goldArtifact = `{
	"product": "gold",
	"version": "test",
	"amount": {
		"intercept": 50000,
		"coefficients": {"Monthly_Income": 2, "CIBIL_Score": 100}
	},
	"rate": {
		"intercept": 14,
		"coefficients": {"CIBIL_Score": -0.003}
	}
}`

type env struct {
	server *httptest.Server
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.NewNoOpLogger()

	modelsDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(modelsDir, "gold_loan_model.json"), []byte(goldArtifact), 0o644))

	mr := miniredis.RunT(t)
	redisClient, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	registry := product.NewRegistry()
	modelStore := predict.NewStore(log)
	modelStore.LoadDir(modelsDir, registry)
	require.True(t, modelStore.Available("gold"))

	eng := engine.New(
		registry,
		session.NewStore(redisClient, "intake:session:", time.Hour),
		extract.NewChain(nil, log),
		predict.NewPredictor(modelStore),
		nil, nil, nil,
		engine.NewResponder(nil, 0.7, log),
		log,
	)

	srv := server.New(eng, nil, nil, nil, modelStore.AvailableProducts,
		config.ServerConfig{Address: ":0"}, log)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &env{server: ts}
}

func (e *env) post(t *testing.T, path string, payload interface{}) map[string]interface{} {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *env) say(t *testing.T, sessionID, message string) map[string]interface{} {
	t.Helper()
	return e.post(t, "/api/chat/message", map[string]string{
		"sessionId": sessionID,
		"message":   message,
	})
}

// TestGoldLoanConversation walks a complete intake conversation over HTTP,
// from greeting through prediction, using only deterministic extraction.
func TestGoldLoanConversation(t *testing.T) {
	e := newEnv(t)

	start := e.post(t, "/api/chat/start", map[string]string{"product": "gold"})
	sessionID := start["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	assert.Contains(t, start["message"], "your full name")

	e.say(t, sessionID, "Hi, my name is Asha Verma")
	e.say(t, sessionID, "asha.verma@example.com")
	e.say(t, sessionID, "+91 98765 43210")
	e.say(t, sessionID, "I am 35 years old")
	e.say(t, sessionID, "my income is 6 lakh")
	e.say(t, sessionID, "720")
	e.say(t, sessionID, "I am salaried")
	e.say(t, sessionID, "around 4 lakh")
	e.say(t, sessionID, "250000")

	final := e.say(t, sessionID, "2")
	require.NotNil(t, final["result"], "expected a prediction, got: %v", final["message"])

	result := final["result"].(map[string]interface{})
	assert.Equal(t, "PREDICTED", final["state"])

	// amount = 50000 + 2*(600000/12) + 100*720 = 222000, below the
	// requested 250000, so the offer is partial.
	assert.Equal(t, "PARTIAL_APPROVAL", result["status"])
	assert.InDelta(t, 222000, result["eligibleAmount"].(float64), 0.5)
	assert.InDelta(t, 250000, result["requestedAmount"].(float64), 0.5)

	// rate = 14 - 0.003*720 = 11.84
	assert.InDelta(t, 11.84, result["interestRate"].(float64), 0.01)

	// The session survives with an empty profile and full history.
	resp, err := http.Get(e.server.URL + "/api/session/" + sessionID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Empty(t, info["profile"])
	assert.Greater(t, info["messages"].(float64), float64(20))
}

// TestIneligibleAnswerDoesNotEndSession checks that a hard rejection is
// reported but leaves the conversation open for a corrected value.
func TestIneligibleAnswerDoesNotEndSession(t *testing.T) {
	e := newEnv(t)

	start := e.post(t, "/api/chat/start", map[string]string{"product": "gold"})
	sessionID := start["sessionId"].(string)

	e.say(t, sessionID, "my name is Asha")
	e.say(t, sessionID, "asha@example.com")
	e.say(t, sessionID, "9876543210")

	// 18 is below the gold loan minimum age of 21.
	reply := e.say(t, sessionID, "I am 18 years old")
	assert.Contains(t, reply["message"], "INELIGIBLE")
	assert.Equal(t, "COLLECTING", reply["state"])

	reply = e.say(t, sessionID, "I am 35 years old")
	assert.NotContains(t, reply["message"], "INELIGIBLE")
}
