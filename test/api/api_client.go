/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

var (
	// ErrUnexpectedStatus is returned when a typed helper gets a status it
	// did not ask for.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrRequestTimeout is returned when the round trip exceeds the
	// configured request timeout.
	ErrRequestTimeout = errors.New("request timed out")
)

//go:generate mockgen -source=api_client.go -destination=mock/interfaces.go -package=mock

// HTTPDoer is the transport used by the client, satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ListUsersParams are the pagination query parameters. Nil fields are
// omitted from the query string, which is distinct from sending zero.
type ListUsersParams struct {
	Page    *int
	PerPage *int
}

// Values encodes the parameters as a query.
func (p ListUsersParams) Values() url.Values {
	values := url.Values{}

	if p.Page != nil {
		values.Set("page", strconv.Itoa(*p.Page))
	}

	if p.PerPage != nil {
		values.Set("per_page", strconv.Itoa(*p.PerPage))
	}

	return values
}

type APIClient struct {
	client    HTTPDoer
	config    TestConfig
	endpoints *Endpoints
	limiter   *rate.Limiter
	logger    logr.Logger
}

// Option customizes a client.
type Option func(*APIClient)

// WithHTTPDoer replaces the default *http.Client.
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *APIClient) {
		c.client = doer
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger logr.Logger) Option {
	return func(c *APIClient) {
		c.logger = logger
	}
}

// NewAPIClient returns a client bound to a copy of the session configuration.
func NewAPIClient(config *TestConfig, opts ...Option) (*APIClient, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrMissingConfiguration)
	}

	endpoints, err := NewEndpoints(config.BaseURL)
	if err != nil {
		return nil, err
	}

	c := &APIClient{
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    *config,
		endpoints: endpoints,
		logger:    logr.Discard(),
	}

	if config.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// requestOptions describe one round trip.
type requestOptions struct {
	method         string
	url            string
	body           []byte
	contentType    string
	expectedStatus int
	// bare skips the common headers, leaving only Content-Type.
	bare bool
}

// commonHeaders are sent on every request unless it is bare.
func (c *APIClient) commonHeaders(header http.Header) {
	header.Set("Accept", "application/json")
	header.Set("User-Agent", c.config.ClientID)

	if c.config.APIKey != "" {
		header.Set(c.config.APIKeyHeader, c.config.APIKey)
	}
}

// logError logs a transport error with trace context.
func (c *APIClient) logError(method, url string, duration time.Duration, traceParent string, err error, context string) {
	c.logger.Error(err, context, "method", method, "url", url, "duration", duration, "traceID", extractTraceID(traceParent))
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(resp *Response, expectedStatus int) {
	c.logger.Info("unexpected status", "method", resp.Method, "url", resp.URL, "expected", expectedStatus, "got", resp.StatusCode, "body", string(resp.Body), "traceID", resp.TraceID)
}

//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, o requestOptions) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	var body io.Reader
	if o.body != nil {
		body = bytes.NewReader(o.body)
	}

	req, err := http.NewRequestWithContext(ctx, o.method, o.url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", traceState)

	if !o.bare {
		c.commonHeaders(req.Header)
	}

	if o.contentType != "" {
		req.Header.Set("Content-Type", o.contentType)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(o.method, o.url, duration, traceParent, err, "http request failed")

		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: %s %s after %s (trace ID: %s)", ErrRequestTimeout, o.method, o.url, c.config.RequestTimeout, extractTraceID(traceParent))
		}

		return nil, fmt.Errorf("http request failed: %s %s (trace ID: %s): %w", o.method, o.url, extractTraceID(traceParent), err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)

	// The body is part of the round trip.
	duration = time.Since(start)

	if err != nil {
		c.logError(o.method, o.url, duration, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	result := &Response{
		Method:     o.method,
		URL:        o.url,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		Duration:   duration,
		TraceID:    extractTraceID(traceParent),
	}

	if c.config.LogRequests {
		c.logger.Info("request completed", "method", o.method, "url", o.url, "status", resp.StatusCode, "duration", duration, "traceID", result.TraceID)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		c.logger.Info("response body", "method", o.method, "url", o.url, "body", string(respBody))
	}

	if o.expectedStatus > 0 && resp.StatusCode != o.expectedStatus {
		c.logUnexpectedStatus(result, o.expectedStatus)
		return result, fmt.Errorf("%w: expected %d, got %d, body: %s (trace ID: %s)", ErrUnexpectedStatus, o.expectedStatus, resp.StatusCode, string(respBody), result.TraceID)
	}

	return result, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *APIClient) postJSON(ctx context.Context, url string, payload any, expectedStatus int) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	return c.doRequest(ctx, requestOptions{
		method:         http.MethodPost,
		url:            url,
		body:           body,
		contentType:    "application/json",
		expectedStatus: expectedStatus,
	})
}

// Get issues a GET with the common headers against any URL.
func (c *APIClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.doRequest(ctx, requestOptions{
		method: http.MethodGet,
		url:    url,
	})
}

// ListUsers reads one page of the user collection.
func (c *APIClient) ListUsers(ctx context.Context, params ListUsersParams) (*Response, error) {
	resp, err := c.Get(ctx, c.endpoints.ListUsers(params))
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	return resp, nil
}

// ListUsersPage reads one page and decodes it, requiring a 200.
func (c *APIClient) ListUsersPage(ctx context.Context, params ListUsersParams) (*UserList, error) {
	resp, err := c.doRequest(ctx, requestOptions{
		method:         http.MethodGet,
		url:            c.endpoints.ListUsers(params),
		expectedStatus: http.StatusOK,
	})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	var list UserList
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}

	return &list, nil
}

// GetUser reads a single user.
func (c *APIClient) GetUser(ctx context.Context, id int) (*Response, error) {
	resp, err := c.Get(ctx, c.endpoints.User(id))
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}

	return resp, nil
}

// CreateUser posts a JSON payload to the collection.
func (c *APIClient) CreateUser(ctx context.Context, payload map[string]any) (*Response, error) {
	resp, err := c.postJSON(ctx, c.endpoints.Users(), payload, 0)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return resp, nil
}

// CreateUserRaw posts an arbitrary body with only the given Content-Type,
// none of the common headers.
func (c *APIClient) CreateUserRaw(ctx context.Context, contentType string, body []byte) (*Response, error) {
	resp, err := c.doRequest(ctx, requestOptions{
		method:      http.MethodPost,
		url:         c.endpoints.Users(),
		body:        body,
		contentType: contentType,
		bare:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return resp, nil
}

// Login posts credentials to the login endpoint.
func (c *APIClient) Login(ctx context.Context, payload map[string]any) (*Response, error) {
	resp, err := c.postJSON(ctx, c.endpoints.Login(), payload, 0)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return resp, nil
}

// LoginToken logs in and returns the token, requiring a 200.
func (c *APIClient) LoginToken(ctx context.Context, email, password string) (string, error) {
	resp, err := c.postJSON(ctx, c.endpoints.Login(), NewLoginPayload().WithEmail(email).WithPassword(password).Build(), http.StatusOK)
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}

	var result LoginResult
	if err := resp.Decode(&result); err != nil {
		return "", err
	}

	return result.Token, nil
}
