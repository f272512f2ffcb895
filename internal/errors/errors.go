package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")

	// Business errors
	ErrInvalidState        = errors.New("action no longer available in current state")
	ErrActiveRequestExists = errors.New("passenger already has an active request")
	ErrDriverNotVerified   = errors.New("driver is not verified")
	ErrAlreadyRated        = errors.New("ride has already been rated")
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common API errors
func NotFound(resource string) *APIError {
	return NewAPIError("not_found", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func BadRequest(message string) *APIError {
	return NewAPIError("bad_request", message, http.StatusBadRequest)
}

func Validation(message string) *APIError {
	return NewAPIError("validation_failed", message, http.StatusUnprocessableEntity)
}

func Conflict(message string) *APIError {
	return NewAPIError("conflict", message, http.StatusConflict)
}

func InternalError(message string) *APIError {
	return NewAPIError("internal_error", message, http.StatusInternalServerError)
}

func Unauthorized(message string) *APIError {
	return NewAPIError("unauthorized", message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return NewAPIError("forbidden", message, http.StatusForbidden)
}

// InvalidState signals an operation attempted against a request or rating
// in the wrong lifecycle state. Surfaced as "this action is no longer
// available."
func InvalidState(message string) *APIError {
	return NewAPIError("invalid_state", message, http.StatusConflict)
}

func InvalidTransition(from, to string) *APIError {
	return NewAPIError("invalid_state", fmt.Sprintf("cannot transition from %s to %s", from, to), http.StatusConflict)
}

func ActiveRequestExists() *APIError {
	return NewAPIError("active_request_exists", "you already have an active ride request, cancel it first", http.StatusConflict)
}

func DriverNotVerified() *APIError {
	return NewAPIError("driver_not_verified", "your driver account has not been verified yet", http.StatusForbidden)
}

func AlreadyRated() *APIError {
	return NewAPIError("already_rated", "this ride has already been rated", http.StatusConflict)
}
