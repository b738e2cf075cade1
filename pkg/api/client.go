package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client provides typed methods for the RoadWatch backend REST API.
// Requests may run concurrently; SetToken must not race with in-flight calls.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
}

// NewClient creates a new RoadWatch API client with the given configuration.
func NewClient(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
		logger: logger.With("component", "api-client"),
	}
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.config.Token
}

// SetToken updates the bearer token used for authenticated endpoints.
func (c *Client) SetToken(token string) {
	c.config.Token = token
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// do performs one API request, retrying retryable failures with exponential
// backoff. A non-nil out receives the decoded JSON response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	if authed && c.config.Token == "" {
		return ErrNotAuthenticated
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + path
	logger := c.logger.With("method", method, "url", url)

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			logger.Debug("retrying after delay", "attempt", attempt, "delay", delay)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doRequest(ctx, method, url, payload, out, authed)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return err
		}
		logger.Debug("request failed, will retry", "error", err, "attempt", attempt)
	}

	return fmt.Errorf("all retries exhausted: %w", lastErr)
}

// doRequest performs a single HTTP round trip and decodes the response.
func (c *Client) doRequest(ctx context.Context, method, url string, payload []byte, out any, authed bool) error {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	req.Header.Set("X-Request-ID", "req_"+uuid.New().String()[:8])

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("HTTP response", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Join(ErrMalformedResponse, err)
		}
	}

	return nil
}

// wrapErr attaches operation context to a request error, lifting the backend's
// status code and message into the typed Error when available.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return &Error{
			Op:      op,
			Status:  httpErr.StatusCode,
			Message: messageFromBody(httpErr.Body),
			Err:     err,
		}
	}
	return WrapError(op, err)
}

// messageFromBody extracts a {"message": ...} field from an error body,
// falling back to the raw body text.
func messageFromBody(body string) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return body
}
