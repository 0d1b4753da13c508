package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chatwire/chatwire/internal/platform"
)

// Client provides access to the Mattermost v4 REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration

	mu    sync.RWMutex
	token string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a REST API client for the given server base URL.
func NewClient(serverURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(serverURL, "/") + "/api/v4",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithRetries sets the retry configuration for idempotent requests.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Token returns the current session token, empty before login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a session token directly, for token-based auth.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// doRequest performs an HTTP request against an API path, marshalling body
// as JSON when non-nil. The raw response body and headers are returned so
// callers can pick out session headers.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, http.Header, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, wrapTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, platform.WrapError(platform.CodeNetwork, "read response", err)
	}

	if resp.StatusCode >= 400 {
		return nil, resp.Header, apiError(resp.StatusCode, respBody)
	}

	return respBody, resp.Header, nil
}

// do performs a request and unmarshals the response into result when
// result is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	respBody, _, err := c.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return platform.WrapError(platform.CodeUnknown, "unmarshal response", err)
	}
	return nil
}

// get performs a GET with retries; GETs are idempotent so transient
// failures and throttling are retried with exponential backoff.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		err := c.do(ctx, http.MethodGet, path, query, nil, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	var pe *platform.Error
	if !errors.As(err, &pe) {
		return false
	}
	return pe.HTTPStatus >= 500 || pe.Code == platform.CodeRateLimited
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func decodeJSON(data []byte, result any) error {
	if err := json.Unmarshal(data, result); err != nil {
		return platform.WrapError(platform.CodeUnknown, "unmarshal response", err)
	}
	return nil
}

// apiError maps an error response to a coded platform error. The server
// reports structured bodies with an id, message, and request_id; fall back
// to status text when the body is not parseable.
func apiError(status int, body []byte) *platform.Error {
	var eb apiErrorBody
	msg := http.StatusText(status)
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		msg = eb.Message
	}

	return &platform.Error{
		Code:            codeForStatus(status),
		Message:         msg,
		PlatformErrorID: eb.ID,
		RequestID:       eb.RequestID,
		HTTPStatus:      status,
	}
}

func codeForStatus(status int) platform.Code {
	switch status {
	case http.StatusUnauthorized:
		return platform.CodeAuthentication
	case http.StatusForbidden:
		return platform.CodePermissionDenied
	case http.StatusNotFound:
		return platform.CodeNotFound
	case http.StatusTooManyRequests:
		return platform.CodeRateLimited
	default:
		return platform.CodeNetwork
	}
}

func wrapTransportError(err error) *platform.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return platform.WrapError(platform.CodeTimeout, "request timed out", err)
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return platform.WrapError(platform.CodeTimeout, "request timed out", err)
	}
	return platform.WrapError(platform.CodeNetwork, "request failed", err)
}
