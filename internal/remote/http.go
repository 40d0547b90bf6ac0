// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// HTTPConfig holds configuration options for the HTTP client.
type HTTPConfig struct {
	// BaseURL is the service base URL (default: http://127.0.0.1:7443)
	BaseURL string

	// Token is sent as a bearer token when set
	Token string

	// Timeout for each request (default: 15s)
	Timeout time.Duration

	// RequestsPerSecond caps the request rate (default: 10)
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the rate (default: 20)
	Burst int

	// Logger receives request diagnostics (default: discard)
	Logger *slog.Logger
}

// DefaultHTTPConfig returns the default client configuration.
func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		BaseURL:           "http://127.0.0.1:7443",
		Timeout:           15 * time.Second,
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// HTTPClient talks to the tasking service over HTTP/JSON.
//
// Endpoints:
//
//	GET  /api/{kind}?status=S          list resources
//	GET  /api/agents/{id}              agent detail
//	GET  /api/tasks/{id}               task detail
//	POST /api/agents/{id}/taskings     submit a tasking
//	GET  /api/agents/{id}/taskings     list taskings (?status=S)
//
// The HTTPClient is safe for concurrent use.
type HTTPClient struct {
	config     *HTTPConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewHTTPClient creates a client with the given configuration.
func NewHTTPClient(config *HTTPConfig) *HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}

	// Fill in defaults for any zero values
	defaults := DefaultHTTPConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if config.Burst == 0 {
		config.Burst = defaults.Burst
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		logger:  logger,
	}
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// =============================================================================
// RESOURCE OPERATIONS
// =============================================================================

// ListResources implements Client.
func (c *HTTPClient) ListResources(ctx context.Context, kind Kind, filter Filter) ([]Summary, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var result []Summary
	if err := c.do(ctx, http.MethodGet, "/api/"+string(kind), query, nil, &result); err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Kind = kind
	}
	return result, nil
}

// GetAgent implements Client.
func (c *HTTPClient) GetAgent(ctx context.Context, id string) (*Agent, error) {
	var agent Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents/"+url.PathEscape(id), nil, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// GetTask implements Client.
func (c *HTTPClient) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// =============================================================================
// TASKING OPERATIONS
// =============================================================================

// SubmitTasking implements Client.
func (c *HTTPClient) SubmitTasking(ctx context.Context, agentID string, spec TaskingSpec) (*Tasking, error) {
	var tasking Tasking
	path := "/api/agents/" + url.PathEscape(agentID) + "/taskings"
	if err := c.do(ctx, http.MethodPost, path, nil, spec, &tasking); err != nil {
		return nil, err
	}
	return &tasking, nil
}

// ListTaskings implements Client.
func (c *HTTPClient) ListTaskings(ctx context.Context, agentID string, filter TaskingFilter) ([]Tasking, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var result []Tasking
	path := "/api/agents/" + url.PathEscape(agentID) + "/taskings"
	if err := c.do(ctx, http.MethodGet, path, query, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// errorBody is the JSON error envelope returned by the service.
type errorBody struct {
	Error string `json:"error"`
}

// do performs one request, decoding a 2xx body into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return Unavailable("request rate limit wait aborted", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindRemote, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &Error{Kind: KindRemote, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("remote request failed", "method", method, "path", path, "error", err)
		if isTimeout(err) {
			return Unavailable("request timed out", err)
		}
		return Unavailable("service unreachable", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote request", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindRemote, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// statusError maps a non-2xx response onto the error taxonomy.
func statusError(resp *http.Response) error {
	message := resp.Status
	var eb errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb); err == nil && eb.Error != "" {
		message = eb.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: message}
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity, http.StatusForbidden:
		return &Error{Kind: KindRejected, Message: message}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return &Error{Kind: KindUnavailable, Message: message}
	default:
		return &Error{Kind: KindRemote, Message: message}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
