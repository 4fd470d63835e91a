package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork marks transport-level failures: the request never produced an
// HTTP response (DNS, connect, timeout, broken body read).
var ErrNetwork = errors.New("network failure")

// APIError is the discriminated result for any non-2xx response. Detail is
// the server-provided error message when the payload carried one; callers
// must handle the empty case instead of relying on payload shape.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// newAPIError builds an APIError from a non-2xx response body. The backend
// reports errors as {"detail": ...} on auth/news/analysis routes and
// {"message": ...} on the interaction routes; anything else yields an error
// with no detail.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	e := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			e.Detail = payload.Detail
		} else {
			e.Detail = payload.Message
		}
	}
	return e
}

// IsNetworkFailure reports whether err is a transport-level failure.
func IsNetworkFailure(err error) bool { return errors.Is(err, ErrNetwork) }

// IsUnauthorized reports whether err is a 401 response, which the session
// layer treats as an invalid or expired token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ErrorDetail extracts the server detail message from err, or "" when the
// error carries none (network failures, detail-less responses).
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
