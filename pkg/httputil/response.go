// Package httputil holds the JSON envelope shared by every storefront endpoint
// and the helpers that write it.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/erohshop/storefront/pkg/errors"
	"github.com/erohshop/storefront/pkg/logger"
	"github.com/erohshop/storefront/pkg/validator"
)

// maxBodyBytes caps request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

// Response is the envelope: exactly one of Data or Error is set.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of the envelope. RequestID echoes the
// correlation id so a shopper-reported failure can be found in the logs.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding errors are dropped
// since the status line has already gone out.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sentinelBodies gives the client-facing code and message for bare sentinel
// errors that reach the edge without an AppError around them.
var sentinelBodies = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "resource not found"},
	{apperrors.ErrConflict, http.StatusConflict, "CONFLICT", "request conflicts with current state"},
	{apperrors.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "not allowed"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests"},
	{apperrors.ErrServiceUnavail, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service temporarily unavailable"},
}

// classify turns err into a status and an error body. Messages of unknown
// errors never reach the client.
func classify(err error) (int, ErrorResponse) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Status, ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	}
	for _, s := range sentinelBodies {
		if errors.Is(err, s.target) {
			msg := s.message
			if msg == "" {
				msg = err.Error()
			}
			return s.status, ErrorResponse{Code: s.code, Message: msg}
		}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}
}

// WriteError writes the envelope for err. Failures at 500 and above are
// logged through the request-scoped logger when RequestLogger is mounted,
// otherwise through fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	ctx := r.Context()
	status, body := classify(err)
	body.RequestID = logger.CorrelationIDFromContext(ctx)

	if status >= http.StatusInternalServerError {
		l := logger.FromContext(ctx)
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		level := slog.LevelWarn
		if status == http.StatusInternalServerError {
			level = slog.LevelError
		}
		l.LogAttrs(ctx, level, "request failed",
			slog.Int("status", status),
			slog.String("code", body.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	WriteJSON(w, status, Response{Error: &body})
}

// WriteValidationError writes a 400. A *validator.ValidationError carries its
// per-field messages; anything else is reported as INVALID_INPUT.
func WriteValidationError(w http.ResponseWriter, err error) {
	body := ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		body = ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		}
	}
	WriteJSON(w, http.StatusBadRequest, Response{Error: &body})
}

// ParseID reads a positive integer path parameter. On failure it has already
// written a 400 INVALID_PARAMETER and returns false.
func ParseID(w http.ResponseWriter, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err == nil && id > 0 {
		return id, true
	}
	WriteJSON(w, http.StatusBadRequest, Response{Error: &ErrorResponse{
		Code:    "INVALID_PARAMETER",
		Message: "invalid id: " + param,
	}})
	return 0, false
}

// DecodeJSON decodes the request body into v. Empty and malformed bodies come
// back as INVALID_INPUT app errors.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return apperrors.InvalidInput("request body is empty")
	default:
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
}
