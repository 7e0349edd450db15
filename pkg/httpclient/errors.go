package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/erohshop/storefront/pkg/errors"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// upstreamError captures the two error body shapes seen from upstream APIs:
// the {"error":{"code","message"}} envelope written by httputil, and the bare
// {"message": "..."} used by the catalog API.
type upstreamError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (u upstreamError) codeAndMessage() (string, string, bool) {
	if u.Error != nil && u.Error.Message != "" {
		return u.Error.Code, u.Error.Message, true
	}
	if u.Message != "" {
		return "", u.Message, true
	}
	return "", "", false
}

// ParseResponseError translates a non-2xx response from serviceName into an
// AppError. The body is consumed and closed. 5xx statuses, and bodies that
// cannot be read, are reported as the upstream being unavailable.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apperrors.Unavailable("UPSTREAM_UNAVAILABLE", serviceName+" is unavailable",
			fmt.Errorf("%s returned status %d (read body: %w)", serviceName, resp.StatusCode, err))
	}

	var parsed upstreamError
	code, message, ok := "", "", false
	if json.Unmarshal(body, &parsed) == nil {
		code, message, ok = parsed.codeAndMessage()
	}
	if !ok {
		message = strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
	}

	return mapUpstreamError(resp.StatusCode, code, message, serviceName)
}

func mapUpstreamError(status int, code, message, serviceName string) error {
	qualified := serviceName + ": " + message

	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: qualified,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited(qualified)
	case status >= http.StatusInternalServerError:
		if code == "" {
			code = "UPSTREAM_UNAVAILABLE"
		}
		return apperrors.Unavailable(code, serviceName+" is unavailable",
			fmt.Errorf("%s returned status %d: %s", serviceName, status, message))
	default:
		if code == "" {
			code = "UPSTREAM_ERROR"
		}
		return &apperrors.AppError{
			Code:    code,
			Message: qualified,
			Status:  status,
			Err:     fmt.Errorf("%s returned status %d", serviceName, status),
		}
	}
}
