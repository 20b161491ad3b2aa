// internal/loan/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/common/logger"
	"loan-intake-engine/internal/common/metrics"
	"loan-intake-engine/internal/loan/extract"
	"loan-intake-engine/internal/loan/predict"
	"loan-intake-engine/internal/loan/product"
	"loan-intake-engine/internal/loan/session"
	"loan-intake-engine/internal/loan/validate"
	"loan-intake-engine/internal/models"
)

// ApplicationWriter persists a finished application.
type ApplicationWriter interface {
	SaveApplication(ctx context.Context, app *models.Application) error
}

// ApplicationIndexer mirrors a finished application into the search backend.
type ApplicationIndexer interface {
	Index(ctx context.Context, app *models.Application) error
}

// ResultNotifier tells the applicant about the outcome.
type ResultNotifier interface {
	NotifyPrediction(ctx context.Context, productName string, app *models.Application)
}

// Reply is what one conversation turn produces.
type Reply struct {
	SessionID     string                   `json:"sessionId"`
	Message       string                   `json:"message"`
	State         models.SessionState      `json:"state"`
	MissingFields []string                 `json:"missingFields,omitempty"`
	Result        *models.PredictionResult `json:"result,omitempty"`
}

// Engine drives the collect-validate-predict loop for every conversation.
// All turn processing for one session is serialized through the lock
// manager; the engine itself keeps no per-session state outside the store.
type Engine struct {
	registry  *product.Registry
	store     *session.Store
	locks     *session.LockManager
	extractor extract.Extractor
	predictor *predict.Predictor
	writer    ApplicationWriter
	indexer   ApplicationIndexer
	notifier  ResultNotifier
	responder *Responder
	logger    logger.Logger
}

func New(
	registry *product.Registry,
	store *session.Store,
	extractor extract.Extractor,
	predictor *predict.Predictor,
	writer ApplicationWriter,
	indexer ApplicationIndexer,
	notifier ResultNotifier,
	responder *Responder,
	log logger.Logger,
) *Engine {
	return &Engine{
		registry:  registry,
		store:     store,
		locks:     session.NewLockManager(),
		extractor: extractor,
		predictor: predictor,
		writer:    writer,
		indexer:   indexer,
		notifier:  notifier,
		responder: responder,
		logger:    log,
	}
}

// StartChat opens a new session for a product and returns the greeting.
func (e *Engine) StartChat(ctx context.Context, productID string) (*Reply, error) {
	def, ok := e.registry.Get(productID)
	if !ok {
		return nil, commonerrors.NewUnknownProductError(productID)
	}

	sess := models.NewSession(uuid.NewString(), def.ID)
	greeting := e.responder.Greeting(ctx, def)
	sess.AddMessage("assistant", greeting)

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	metrics.SessionsActive.WithLabelValues(def.ID).Inc()
	e.logger.Info("session started", map[string]interface{}{
		"session_id": sess.ID,
		"product":    def.ID,
	})

	return &Reply{
		SessionID:     sess.ID,
		Message:       greeting,
		State:         sess.State,
		MissingFields: def.MissingFields(sess.Profile),
	}, nil
}

// ProcessMessage runs one full conversation turn: extract, validate, merge,
// and either ask for what is still missing or predict.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, message string) (*Reply, error) {
	unlock := e.locks.Lock(sessionID)
	defer unlock()

	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	def, ok := e.registry.Get(sess.ProductID)
	if !ok {
		return nil, commonerrors.NewUnknownProductError(sess.ProductID)
	}

	metrics.MessagesProcessed.WithLabelValues(def.ID).Inc()

	candidates := e.extractor.Extract(ctx, def, sess.Conversation, message)
	sess.AddMessage("user", message)

	rejections, firstRejected := e.mergeCandidates(def, sess, candidates)
	if len(rejections) > 0 {
		msg := strings.Join(rejections, " ")
		// Re-ask for the rejected field so the next bare answer has
		// something to attach to.
		if spec, ok := def.Field(firstRejected); ok {
			msg += fmt.Sprintf(" Could you tell me %s?", spec.Ask)
		}
		return e.finishTurn(ctx, sess, def, msg, nil)
	}

	missing := def.MissingFields(sess.Profile)
	if len(missing) > 0 {
		reply := e.responder.FollowUp(ctx, def, sess, missing)
		return e.finishTurn(ctx, sess, def, reply, nil)
	}

	injectDerived(def, sess.Profile)

	if cross := validate.CrossFields(def, sess.Profile); !cross.Accepted {
		metrics.ValidationRejections.WithLabelValues(def.ID, string(cross.Category)).Inc()
		return e.finishTurn(ctx, sess, def, cross.Message+" Please provide corrected values.", nil)
	}

	sess.State = models.StateReadyForPrediction
	return e.predictAndRespond(ctx, sess, def)
}

// mergeCandidates validates each extracted candidate in schema order and
// merges only the accepted ones. Every rejection in the batch is reported.
func (e *Engine) mergeCandidates(def *product.Definition, sess *models.Session, candidates map[string]interface{}) ([]string, string) {
	var rejections []string
	firstRejected := ""
	for _, name := range def.Required {
		raw, ok := candidates[name]
		if !ok {
			continue
		}
		if _, known := def.Field(name); !known {
			// Derived targets are produced internally, never accepted
			// directly from input.
			continue
		}

		out := validate.Field(def, name, raw)
		if !out.Accepted {
			metrics.ValidationRejections.WithLabelValues(def.ID, string(out.Category)).Inc()
			rejections = append(rejections, out.Message)
			if firstRejected == "" {
				firstRejected = name
			}
			continue
		}
		sess.Profile[name] = out.Value
	}
	return rejections, firstRejected
}

func (e *Engine) predictAndRespond(ctx context.Context, sess *models.Session, def *product.Definition) (*Reply, error) {
	start := time.Now()
	result, err := e.predictor.Predict(def, sess.Profile)
	if err != nil {
		code := string(commonerrors.ErrCodePredictionFailed)
		if stdErr, ok := err.(*commonerrors.StandardError); ok {
			code = string(stdErr.Code)
		}
		metrics.PredictionsFailed.WithLabelValues(def.ID, code).Inc()
		e.logger.Error("prediction failed", map[string]interface{}{
			"session_id": sess.ID,
			"product":    def.ID,
			"error":      err.Error(),
		})

		msg := "I'm sorry, our eligibility service is unavailable for this product right now. Please try again later."
		if _, saveErr := e.finishTurn(ctx, sess, def, msg, nil); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	metrics.PredictionDuration.WithLabelValues(def.ID).Observe(time.Since(start).Seconds())
	metrics.PredictionsCompleted.WithLabelValues(def.ID, string(result.Status)).Inc()

	app := &models.Application{
		ID:        uuid.NewString(),
		SessionID: sess.ID,
		ProductID: def.ID,
		Profile:   copyProfile(sess.Profile),
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}
	e.recordApplication(ctx, def, app)

	sess.State = models.StatePredicted
	// The gauge pairs one increment per StartChat with one decrement per
	// session, no matter how many application cycles it runs.
	if sess.Applications == 0 {
		metrics.SessionsActive.WithLabelValues(def.ID).Dec()
	}
	sess.Applications++

	msg := resultMessage(def, sess.Profile, result)

	// The profile is spent; the conversation history survives so the user
	// can start a fresh application in the same session.
	sess.ClearProfile()

	reply, err := e.finishTurn(ctx, sess, def, msg, result)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// recordApplication fans out to the persistence collaborators. All three
// are best-effort: the applicant already has their answer.
func (e *Engine) recordApplication(ctx context.Context, def *product.Definition, app *models.Application) {
	if e.writer != nil {
		if err := e.writer.SaveApplication(ctx, app); err != nil {
			e.logger.Error("application not persisted", map[string]interface{}{
				"application_id": app.ID,
				"error":          err.Error(),
			})
		}
	}
	if e.indexer != nil {
		if err := e.indexer.Index(ctx, app); err != nil {
			e.logger.Warn("application not indexed", map[string]interface{}{
				"application_id": app.ID,
				"error":          err.Error(),
			})
		}
	}
	if e.notifier != nil {
		e.notifier.NotifyPrediction(ctx, def.DisplayName, app)
	}
}

// finishTurn appends the assistant reply, saves the session, and shapes
// the response.
func (e *Engine) finishTurn(ctx context.Context, sess *models.Session, def *product.Definition, message string, result *models.PredictionResult) (*Reply, error) {
	sess.AddMessage("assistant", message)
	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	return &Reply{
		SessionID:     sess.ID,
		Message:       message,
		State:         sess.State,
		MissingFields: def.MissingFields(sess.Profile),
		Result:        result,
	}, nil
}

// SessionInfo exposes a read-only snapshot for the session endpoint.
func (e *Engine) SessionInfo(ctx context.Context, sessionID string) (*models.Session, []string, error) {
	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	def, ok := e.registry.Get(sess.ProductID)
	if !ok {
		return nil, nil, commonerrors.NewUnknownProductError(sess.ProductID)
	}
	return sess, def.MissingFields(sess.Profile), nil
}

// Products lists the catalog for the start endpoint.
func (e *Engine) Products() []string {
	return e.registry.IDs()
}

// injectDerived materializes derived fields once their sources are present.
func injectDerived(def *product.Definition, profile map[string]interface{}) {
	for _, rule := range def.Derived {
		if _, done := profile[rule.Target]; done {
			continue
		}
		src, ok := profile[rule.Source]
		if !ok {
			continue
		}
		if v, err := validate.ToFloat(src); err == nil {
			profile[rule.Target] = rule.Apply(v)
		}
	}
}

func copyProfile(profile map[string]interface{}) map[string]interface{} {
	cp := make(map[string]interface{}, len(profile))
	for k, v := range profile {
		cp[k] = v
	}
	return cp
}

func resultMessage(def *product.Definition, profile map[string]interface{}, r *models.PredictionResult) string {
	name, _ := profile["Customer_Name"].(string)
	greeting := ""
	if name != "" {
		greeting = name + ", "
	}

	if r.Status == models.StatusApproved {
		return fmt.Sprintf(
			"%scongratulations! Your %s application is approved. Sanctioned amount: ₹%.0f at %.2f%% p.a. We've sent the details to your email and phone.",
			greeting, def.DisplayName, r.EligibleAmount, r.InterestRate)
	}
	return fmt.Sprintf(
		"%sbased on your profile we can offer ₹%.0f at %.2f%% p.a. against your requested ₹%.0f. A loan officer will reach out to discuss options.",
		greeting, r.EligibleAmount, r.InterestRate, r.RequestedAmount)
}
