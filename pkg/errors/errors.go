// Package errors defines the sentinel errors and the AppError type that the
// HTTP layer turns into status codes and client-facing messages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched with errors.Is across package boundaries.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrRateLimited    = errors.New("rate limited")
)

// AppError is an error with a stable machine-readable code, a message safe to
// show a shopper, and the HTTP status it maps to. Err is kept for errors.Is
// and for logs; it is never serialised.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func newAppError(status int, code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// NotFound reports a missing resource, e.g. NotFound("product", "42").
func NotFound(resource, id string) *AppError {
	return newAppError(http.StatusNotFound, "NOT_FOUND",
		fmt.Sprintf("%s with id %s not found", resource, id), ErrNotFound)
}

// InvalidInput is a 400 carrying message verbatim.
func InvalidInput(message string) *AppError {
	return newAppError(http.StatusBadRequest, "INVALID_INPUT", message, ErrInvalidInput)
}

// Unauthorized is a 401.
func Unauthorized(message string) *AppError {
	return newAppError(http.StatusUnauthorized, "UNAUTHORIZED", message, ErrUnauthorized)
}

// Forbidden is a 403.
func Forbidden(message string) *AppError {
	return newAppError(http.StatusForbidden, "FORBIDDEN", message, ErrForbidden)
}

// Conflict is a 409.
func Conflict(message string) *AppError {
	return newAppError(http.StatusConflict, "CONFLICT", message, ErrConflict)
}

// RateLimited is a 429.
func RateLimited(message string) *AppError {
	return newAppError(http.StatusTooManyRequests, "RATE_LIMITED", message, ErrRateLimited)
}

// Unavailable is a 503 with a caller-chosen code such as CATALOG_UNAVAILABLE.
// The result matches both ErrServiceUnavail and cause.
func Unavailable(code, message string, cause error) *AppError {
	err := ErrServiceUnavail
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrServiceUnavail, cause)
	}
	return newAppError(http.StatusServiceUnavailable, code, message, err)
}
