package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Sentinel errors for common failure scenarios.
var (
	// ErrNotAuthenticated indicates an authenticated endpoint was called
	// without a bearer token configured.
	ErrNotAuthenticated = errors.New("not authenticated: no token configured")

	// ErrMalformedResponse indicates the backend returned a body the client
	// could not decode.
	ErrMalformedResponse = errors.New("malformed response")
)

// HTTPError represents a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// IsRetryable returns true if the HTTP error is worth retrying:
// 5xx server faults and 429 rate limiting.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Error wraps an API failure with the operation that caused it.
type Error struct {
	// Op is the operation that failed, e.g. "login" or "submit report".
	Op string

	// Status is the HTTP status code, when the failure came from a response.
	Status int

	// Message is the backend's message, when one was provided.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: [%d] %s", e.Op, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with operation context.
func WrapError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// IsAuthError returns true if the error is an authentication or
// authorization failure.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status == http.StatusNotFound
	}
	return false
}

// IsRetryable returns true if the error is likely transient and the request
// should be retried: 5xx responses, 429 rate limiting, and transport-level
// failures (connection refused, reset mid-request). Context cancellation is
// never retried.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryable()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
