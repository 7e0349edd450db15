package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/erohshop/storefront/pkg/errors"
)

func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func envelope(code, message string) string {
	return `{"error":{"code":"` + code + `","message":"` + message + `"}}`
}

func TestParseResponseError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantIs     error
		wantCode   string
		wantText   string
	}{
		{
			name:       "catalog not found",
			status:     http.StatusNotFound,
			body:       `{"message":"Product with id '999' not found"}`,
			wantStatus: http.StatusNotFound,
			wantIs:     apperrors.ErrNotFound,
			wantCode:   "NOT_FOUND",
			wantText:   "999",
		},
		{
			name:       "invalid credentials",
			status:     http.StatusBadRequest,
			body:       `{"message":"Invalid credentials"}`,
			wantStatus: http.StatusBadRequest,
			wantIs:     apperrors.ErrInvalidInput,
			wantCode:   "INVALID_INPUT",
			wantText:   "catalog-api: Invalid credentials",
		},
		{
			name:       "unprocessable",
			status:     http.StatusUnprocessableEntity,
			body:       `{"message":"bad limit"}`,
			wantStatus: http.StatusBadRequest,
			wantIs:     apperrors.ErrInvalidInput,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "envelope conflict",
			status:     http.StatusConflict,
			body:       envelope("CONFLICT", "duplicate"),
			wantStatus: http.StatusConflict,
			wantIs:     apperrors.ErrConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "token expired",
			status:     http.StatusUnauthorized,
			body:       `{"message":"Token Expired!"}`,
			wantStatus: http.StatusUnauthorized,
			wantIs:     apperrors.ErrUnauthorized,
			wantCode:   "UNAUTHORIZED",
			wantText:   "Token Expired!",
		},
		{
			name:       "forbidden",
			status:     http.StatusForbidden,
			body:       envelope("FORBIDDEN", "nope"),
			wantStatus: http.StatusForbidden,
			wantIs:     apperrors.ErrForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "throttled",
			status:     http.StatusTooManyRequests,
			body:       `{"message":"slow down"}`,
			wantStatus: http.StatusTooManyRequests,
			wantIs:     apperrors.ErrRateLimited,
			wantCode:   "RATE_LIMITED",
		},
		{
			name:       "envelope 503 keeps code",
			status:     http.StatusServiceUnavailable,
			body:       envelope("MAINTENANCE", "back soon"),
			wantStatus: http.StatusServiceUnavailable,
			wantIs:     apperrors.ErrServiceUnavail,
			wantCode:   "MAINTENANCE",
			wantText:   "503: back soon",
		},
		{
			name:       "plain 500",
			status:     http.StatusInternalServerError,
			body:       `{"message":"DB down"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantIs:     apperrors.ErrServiceUnavail,
			wantCode:   "UPSTREAM_UNAVAILABLE",
			wantText:   "500: DB down",
		},
		{
			name:       "html 502",
			status:     http.StatusBadGateway,
			body:       "<html><body>Bad Gateway</body></html>",
			wantStatus: http.StatusServiceUnavailable,
			wantIs:     apperrors.ErrServiceUnavail,
			wantCode:   "UPSTREAM_UNAVAILABLE",
			wantText:   "Bad Gateway",
		},
		{
			name:       "empty 504 uses status text",
			status:     http.StatusGatewayTimeout,
			wantStatus: http.StatusServiceUnavailable,
			wantIs:     apperrors.ErrServiceUnavail,
			wantText:   "Gateway Timeout",
		},
		{
			name:       "null envelope falls back to raw body",
			status:     http.StatusBadRequest,
			body:       `{"error":null}`,
			wantStatus: http.StatusBadRequest,
			wantIs:     apperrors.ErrInvalidInput,
			wantText:   `{"error":null}`,
		},
		{
			name:       "unmapped 4xx",
			status:     http.StatusTeapot,
			body:       `{"message":"short and stout"}`,
			wantStatus: http.StatusTeapot,
			wantCode:   "UPSTREAM_ERROR",
			wantText:   "short and stout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseResponseError(makeResponse(tt.status, tt.body), "catalog-api")
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantStatus, appErr.Status)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, appErr.Code)
			}
			if tt.wantText != "" {
				assert.Contains(t, err.Error(), tt.wantText)
			}
		})
	}
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

func TestParseResponseError_UnreadableBody(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusBadRequest, Body: failingBody{}}
	err := ParseResponseError(resp, "catalog-api")

	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Contains(t, err.Error(), "connection reset")
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestParseResponseError_ClosesBody(t *testing.T) {
	body := &closeTracker{Reader: strings.NewReader(`{"message":"x"}`)}
	_ = ParseResponseError(&http.Response{StatusCode: http.StatusNotFound, Body: body}, "catalog-api")
	assert.True(t, body.closed)
}
