// Package errors provides standardized error handling for the loan intake engine.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeUnknownProduct     ErrorCode = "UNKNOWN_PRODUCT"

	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrCodeLLMTimeout       ErrorCode = "LLM_TIMEOUT"

	ErrCodeFieldValidationFailed ErrorCode = "FIELD_VALIDATION_FAILED"
	ErrCodeCrossFieldViolation   ErrorCode = "CROSS_FIELD_VIOLATION"
	ErrCodeIneligible            ErrorCode = "INELIGIBLE"

	ErrCodeFeatureBuildFailed ErrorCode = "FEATURE_BUILD_FAILED"
	ErrCodeModelUnavailable   ErrorCode = "MODEL_UNAVAILABLE"
	ErrCodePredictionFailed   ErrorCode = "PREDICTION_FAILED"

	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed    ErrorCode = "SEARCH_QUERY_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSessionNotFoundError is returned when a session id has no live session.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found or expired",
		Details:   fmt.Sprintf("session %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreError wraps a session store read/write failure.
func NewSessionStoreError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownProductError is returned for product ids outside the catalog.
func NewUnknownProductError(productID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownProduct,
		Message:   "Unknown loan product",
		Details:   fmt.Sprintf("product %q is not in the catalog", productID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelUnavailableError signals that a product's model artifact never
// loaded. No user input can fix this, so it is never retryable in-turn.
func NewModelUnavailableError(productID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelUnavailable,
		Message:   "Prediction service unavailable for this product",
		Details:   fmt.Sprintf("model artifact for %q not loaded", productID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFeatureBuildError covers missing fields or unmappable categories at
// feature-building time. The profile is kept so the user can correct it.
func NewFeatureBuildError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeatureBuildFailed,
		Message:   "Could not prepare application data for prediction",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError covers malformed HTTP payloads.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFieldValidationFailed, ErrCodeCrossFieldViolation, ErrCodeIneligible:
		return "validation"
	case ErrCodeExtractionFailed, ErrCodeLLMTimeout:
		return "extraction"
	case ErrCodeFeatureBuildFailed, ErrCodeModelUnavailable, ErrCodePredictionFailed:
		return "prediction"
	case ErrCodeDatabaseInsertFailed, ErrCodeQueryExecutionFailed, ErrCodeSearchQueryFailed, ErrCodeSessionStoreFailed:
		return "infrastructure"
	case ErrCodeNotificationSendFailed:
		return "notification"
	default:
		return "general"
	}
}

// IsUserVisible reports whether a code's message may be surfaced verbatim in
// the conversation. Infrastructure failures are logged, never shown.
func IsUserVisible(code ErrorCode) bool {
	switch GetErrorCategory(code) {
	case "validation", "prediction":
		return true
	default:
		return false
	}
}

// IsIneligibleMessage detects the hard-ineligibility marker inside a
// validation message.
func IsIneligibleMessage(msg string) bool {
	return strings.Contains(msg, "INELIGIBLE")
}
