// internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-chi/chi/v5"

	commonerrors "loan-intake-engine/internal/common/errors"
	"loan-intake-engine/internal/loan/persist"
)

type startChatRequest struct {
	Product string `json:"product"`
}

func (req startChatRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Product, validation.Required, validation.Length(1, 50)),
	)
}

type chatMessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (req chatMessageRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SessionID, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Message, validation.Required, validation.Length(1, 2000)),
	)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products": s.engine.Products(),
	})
}

func (s *Server) handleChatStart(w http.ResponseWriter, r *http.Request) {
	var req startChatRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}

	reply, err := s.engine.StartChat(r.Context(), req.Product)
	if err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}

	reply, err := s.engine.ProcessMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, missing, err := s.engine.SessionInfo(r.Context(), sessionID)
	if err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId":     sess.ID,
		"product":       sess.ProductID,
		"state":         sess.State,
		"profile":       persist.MaskProfile(sess.Profile),
		"missingFields": missing,
		"messages":      len(sess.Conversation),
		"createdAt":     sess.CreatedAt,
		"updatedAt":     sess.UpdatedAt,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true
	for name, ping := range s.pingers {
		if err := ping(r.Context()); err != nil {
			checks[name] = "down: " + err.Error()
			healthy = false
			continue
		}
		checks[name] = "up"
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	var modelsLoaded []string
	if s.modelsUp != nil {
		modelsLoaded = s.modelsUp()
	}

	writeJSON(w, status, map[string]interface{}{
		"status":       state,
		"checks":       checks,
		"modelsLoaded": modelsLoaded,
	})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.StatsByProduct(r.Context())
	if err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

func (s *Server) handleAdminApplications(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product")
	limit := queryInt(r, "limit", 20, 100)
	offset := queryInt(r, "offset", 0, 1<<30)

	apps, err := s.admin.ListApplications(r.Context(), productID, limit, offset)
	if err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}

	// Contact details never leave the admin API unmasked.
	out := make([]map[string]interface{}, 0, len(apps))
	for _, app := range apps {
		out = append(out, map[string]interface{}{
			"id":        app.ID,
			"sessionId": app.SessionID,
			"productId": app.ProductID,
			"profile":   persist.MaskProfile(app.Profile),
			"result":    app.Result,
			"createdAt": app.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"applications": out})
}

func (s *Server) handleAdminSearch(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		s.errHandler.WriteHTTPError(w, r,
			commonerrors.NewInvalidRequestError("search backend is not configured"))
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		s.errHandler.WriteHTTPError(w, r,
			commonerrors.NewInvalidRequestError("query parameter q is required"))
		return
	}

	hits, err := s.searcher.Search(r.Context(), query, queryInt(r, "size", 20, 100))
	if err != nil {
		s.errHandler.WriteHTTPError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"hits": hits})
}

func decodeAndValidate(r *http.Request, req interface{ Validate() error }) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return commonerrors.NewInvalidRequestError("malformed JSON body: " + err.Error())
	}
	if err := req.Validate(); err != nil {
		return commonerrors.NewInvalidRequestError(err.Error())
	}
	return nil
}

func queryInt(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
