// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorHandler normalizes errors and writes them as JSON HTTP responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteHTTPError logs the error and writes a standardized JSON body.
func (h *ErrorHandler) WriteHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"path":          r.URL.Path,
		"method":        r.Method,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(stdErr.Code))
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": stdErr,
	})
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps internal error codes to response status codes.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeUnknownProduct, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeSessionStoreFailed, ErrCodeDatabaseInsertFailed, ErrCodeQueryExecutionFailed, ErrCodeSearchQueryFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
