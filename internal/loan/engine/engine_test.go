// internal/loan/engine/engine_test.go
package engine

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake-engine/internal/common/config"
	"loan-intake-engine/internal/common/database"
	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/common/metrics"
	"loan-intake-engine/internal/loan/extract"
	"loan-intake-engine/internal/loan/predict"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/loan/session"
	"loan-intake-engine/internal/models"
	"loan-intake-engine/pkg/artifact"
)

type fakeWriter struct {
	apps []*models.Application
	err  error
}

func (f *fakeWriter) SaveApplication(_ context.Context, app *models.Application) error {
	f.apps = append(f.apps, app)
	return f.err
}

type fakeIndexer struct {
	apps []*models.Application
	err  error
}

func (f *fakeIndexer) Index(_ context.Context, app *models.Application) error {
	f.apps = append(f.apps, app)
	return f.err
}

type fakeNotifier struct {
	apps []*models.Application
}

func (f *fakeNotifier) NotifyPrediction(_ context.Context, _ string, app *models.Application) {
	f.apps = append(f.apps, app)
}

type fixture struct {
	engine   *Engine
	store    *session.Store
	writer   *fakeWriter
	indexer  *fakeIndexer
	notifier *fakeNotifier
}

func fixedBundle(productID string, amount, rate float64) *artifact.Bundle {
	return &artifact.Bundle{
		Product: productID,
		Amount:  artifact.LinearHead{Intercept: amount, Coefficients: map[string]float64{"Age": 0}},
		Rate:    artifact.LinearHead{Intercept: rate, Coefficients: map[string]float64{"Age": 0}},
	}
}

func newFixture(t *testing.T, bundles map[string]*artifact.Bundle) *fixture {
	t.Helper()
	log := logger.NewNoOpLogger()

	mr := miniredis.RunT(t)
	client, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewStore(client, "intake:session:", time.Hour)

	modelStore := predict.NewStore(log)
	for id, b := range bundles {
		modelStore.Put(id, b)
	}

	writer := &fakeWriter{}
	indexer := &fakeIndexer{}
	notifier := &fakeNotifier{}

	eng := New(
		product.NewRegistry(),
		store,
		extract.NewChain(nil, log),
		predict.NewPredictor(modelStore),
		writer,
		indexer,
		notifier,
		NewResponder(nil, 0.7, log),
		log,
	)

	return &fixture{engine: eng, store: store, writer: writer, indexer: indexer, notifier: notifier}
}

func say(t *testing.T, f *fixture, sessionID, msg string) *Reply {
	t.Helper()
	reply, err := f.engine.ProcessMessage(context.Background(), sessionID, msg)
	require.NoError(t, err, "message %q", msg)
	return reply
}

// runGoldApplication walks an open session through one complete gold
// application and returns the final reply.
func runGoldApplication(t *testing.T, f *fixture, sessionID string) *Reply {
	t.Helper()
	say(t, f, sessionID, "My name is Asha")
	say(t, f, sessionID, "asha@example.com")
	say(t, f, sessionID, "9876543210")
	say(t, f, sessionID, "I am 35 years old")
	say(t, f, sessionID, "6 lakh")
	say(t, f, sessionID, "720")
	say(t, f, sessionID, "I am salaried")
	say(t, f, sessionID, "400000")
	say(t, f, sessionID, "250000")
	final := say(t, f, sessionID, "2")
	require.NotNil(t, final.Result)
	return final
}

// ==========================
// Full conversation flow
// ==========================

func TestEngine_GoldLoanHappyPath(t *testing.T) {
	f := newFixture(t, map[string]*artifact.Bundle{
		"gold": fixedBundle("gold", 250000, 11.5),
	})
	ctx := context.Background()

	start, err := f.engine.StartChat(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, models.StateCollecting, start.State)
	assert.Contains(t, start.Message, "your full name")
	id := start.SessionID

	say(t, f, id, "My name is Asha")
	say(t, f, id, "asha@example.com")
	say(t, f, id, "9876543210")
	say(t, f, id, "I am 35 years old")

	reply := say(t, f, id, "6 lakh") // annual income
	assert.Contains(t, reply.Message, "your CIBIL score")

	say(t, f, id, "720")
	say(t, f, id, "I am salaried")
	say(t, f, id, "400000") // gold value
	say(t, f, id, "250000") // loan amount

	final := say(t, f, id, "2") // tenure, completes the profile
	require.NotNil(t, final.Result)
	assert.Equal(t, models.StatusApproved, final.Result.Status)
	assert.InDelta(t, 250000, final.Result.EligibleAmount, 1e-9)
	assert.Equal(t, models.StatePredicted, final.State)

	// Persistence and notification fired exactly once.
	require.Len(t, f.writer.apps, 1)
	assert.Equal(t, "Asha", f.writer.apps[0].Profile["Customer_Name"])
	assert.Len(t, f.indexer.apps, 1)
	assert.Len(t, f.notifier.apps, 1)

	// Profile cleared, history retained.
	sess, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, sess.Profile)
	assert.NotEmpty(t, sess.Conversation)
}

func TestEngine_StartChatUnknownProduct(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.engine.StartChat(context.Background(), "yacht")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeUnknownProduct, stdErr.Code)
}

func TestEngine_UnknownSession(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.engine.ProcessMessage(context.Background(), "ghost", "hello")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeSessionNotFound, stdErr.Code)
}

// ==========================
// Validation behavior
// ==========================

func TestEngine_RejectedValueIsNotMerged(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	start, err := f.engine.StartChat(ctx, "gold")
	require.NoError(t, err)
	id := start.SessionID

	say(t, f, id, "My name is Asha")
	say(t, f, id, "asha@example.com")
	say(t, f, id, "9876543210")
	say(t, f, id, "I am 35 years old")
	say(t, f, id, "6 lakh")

	// CIBIL below the gold floor of 600: hard ineligibility for the field.
	reply := say(t, f, id, "500")
	assert.Contains(t, reply.Message, "INELIGIBLE")
	assert.Equal(t, models.StateCollecting, reply.State)

	sess, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, sess.Profile, "CIBIL_Score")

	// The session is still usable with a corrected value.
	reply = say(t, f, id, "720")
	assert.NotContains(t, reply.Message, "INELIGIBLE")

	sess, err = f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, float64(720), sess.Profile["CIBIL_Score"])
}

func TestEngine_RepeatedValueIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	start, err := f.engine.StartChat(ctx, "gold")
	require.NoError(t, err)
	id := start.SessionID

	first := say(t, f, id, "My name is Asha")
	second := say(t, f, id, "My name is Asha")

	assert.Equal(t, first.MissingFields, second.MissingFields)

	sess, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Asha", sess.Profile["Customer_Name"])
}

func TestEngine_ModelUnavailableFailsFast(t *testing.T) {
	// No bundle registered for gold.
	f := newFixture(t, nil)
	ctx := context.Background()

	start, err := f.engine.StartChat(ctx, "gold")
	require.NoError(t, err)
	id := start.SessionID

	say(t, f, id, "My name is Asha")
	say(t, f, id, "asha@example.com")
	say(t, f, id, "9876543210")
	say(t, f, id, "I am 35 years old")
	say(t, f, id, "6 lakh")
	say(t, f, id, "720")
	say(t, f, id, "I am salaried")
	say(t, f, id, "400000")
	say(t, f, id, "250000")

	_, err = f.engine.ProcessMessage(ctx, id, "2")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeModelUnavailable, stdErr.Code)

	// Nothing was persisted or notified.
	assert.Empty(t, f.writer.apps)
	assert.Empty(t, f.notifier.apps)
}

func TestEngine_PersistenceFailureDoesNotBlockResult(t *testing.T) {
	f := newFixture(t, map[string]*artifact.Bundle{
		"gold": fixedBundle("gold", 200000, 12),
	})
	f.writer.err = assert.AnError
	f.indexer.err = assert.AnError
	ctx := context.Background()

	start, err := f.engine.StartChat(ctx, "gold")
	require.NoError(t, err)
	id := start.SessionID

	say(t, f, id, "My name is Asha")
	say(t, f, id, "asha@example.com")
	say(t, f, id, "9876543210")
	say(t, f, id, "I am 35 years old")
	say(t, f, id, "6 lakh")
	say(t, f, id, "720")
	say(t, f, id, "I am salaried")
	say(t, f, id, "400000")
	say(t, f, id, "250000")

	final := say(t, f, id, "2")
	require.NotNil(t, final.Result)
	assert.Equal(t, models.StatusPartialApproval, final.Result.Status)
}

// ==========================
// Metrics
// ==========================

func TestEngine_ActiveSessionsGaugeSettledOncePerSession(t *testing.T) {
	f := newFixture(t, map[string]*artifact.Bundle{
		"gold": fixedBundle("gold", 250000, 11.5),
	})
	ctx := context.Background()

	gauge := metrics.SessionsActive.WithLabelValues("gold")
	base := testutil.ToFloat64(gauge)

	start, err := f.engine.StartChat(ctx, "gold")
	require.NoError(t, err)
	assert.InDelta(t, base+1, testutil.ToFloat64(gauge), 1e-9)

	runGoldApplication(t, f, start.SessionID)
	assert.InDelta(t, base, testutil.ToFloat64(gauge), 1e-9)

	// A second application in the same session must not decrement again.
	runGoldApplication(t, f, start.SessionID)
	assert.InDelta(t, base, testutil.ToFloat64(gauge), 1e-9)
}

func TestEngine_SessionInfo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	start, err := f.engine.StartChat(ctx, "personal")
	require.NoError(t, err)

	say(t, f, start.SessionID, "My name is Asha")

	sess, missing, err := f.engine.SessionInfo(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "personal", sess.ProductID)
	assert.NotContains(t, missing, "Customer_Name")
	assert.Contains(t, missing, "CIBIL_Score")
}
