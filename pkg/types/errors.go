package types

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Validation error (returned during request parsing)
// ──────────────────────────────────────────────────────────────────────────────

type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// ──────────────────────────────────────────────────────────────────────────────
// APIError — structured error returned to callers
// ──────────────────────────────────────────────────────────────────────────────

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WriteJSON writes the error as JSON to the response writer.
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// ──────────────────────────────────────────────────────────────────────────────
// Common error constructors
// ──────────────────────────────────────────────────────────────────────────────

func ErrBadRequest(msg string) *APIError {
	return &APIError{Code: "BAD_REQUEST", Message: msg, StatusCode: http.StatusBadRequest}
}

// ErrMissingInput is for absent required inputs caught before any lookup,
// such as a request arriving without an app key.
func ErrMissingInput(msg string) *APIError {
	return &APIError{Code: "MISSING_INPUT", Message: msg, StatusCode: http.StatusUnprocessableEntity}
}

func ErrValidation(msg string, fields []ValidationError) *APIError {
	return &APIError{Code: "VALIDATION_ERROR", Message: msg, Details: fields, StatusCode: http.StatusUnprocessableEntity}
}

// ErrDuplicate covers unique-constraint violations (email, app keys).
func ErrDuplicate(msg string) *APIError {
	return &APIError{Code: "DUPLICATE", Message: msg, StatusCode: http.StatusUnprocessableEntity}
}

// ErrInvalidCredentials covers login failures without revealing which
// factor was wrong.
func ErrInvalidCredentials(msg string) *APIError {
	return &APIError{Code: "INVALID_CREDENTIALS", Message: msg, StatusCode: http.StatusUnprocessableEntity}
}

func ErrUnauthorized(msg string) *APIError {
	return &APIError{Code: "UNAUTHORIZED", Message: msg, StatusCode: http.StatusUnauthorized}
}

func ErrNotFound(msg string) *APIError {
	return &APIError{Code: "NOT_FOUND", Message: msg, StatusCode: http.StatusNotFound}
}

func ErrRateLimited() *APIError {
	return &APIError{Code: "RATE_LIMITED", Message: "too many requests", StatusCode: http.StatusTooManyRequests}
}

func ErrDelivery(msg string) *APIError {
	return &APIError{Code: "DELIVERY_ERROR", Message: msg, StatusCode: http.StatusBadGateway}
}

func ErrInternal(msg string) *APIError {
	return &APIError{Code: "INTERNAL_ERROR", Message: msg, StatusCode: http.StatusInternalServerError}
}
