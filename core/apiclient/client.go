package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/cafe/core/logger"
)

// maxBodySize bounds how much of an upstream response is read.
const maxBodySize = 4 << 20

// Interceptor mutates an outgoing request before it is sent.
type Interceptor func(req *http.Request) error

// Client is a JSON client for the upstream API.
// It is safe for concurrent use; per-call state travels in request options.
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	interceptors []Interceptor
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.http.Timeout = d
		}
	}
}

// WithInterceptor appends interceptors. They run in registration order.
func WithInterceptor(interceptors ...Interceptor) Option {
	return func(cl *Client) {
		cl.interceptors = append(cl.interceptors, interceptors...)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New creates a client for baseURL. Endpoints are resolved relative to it,
// so "auth/login" against "https://host/api/" targets "https://host/api/auth/login".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// RequestOption customizes a single call.
type RequestOption func(*request)

type request struct {
	query   url.Values
	headers http.Header
	jar     http.CookieJar
}

// WithQuery sets the query string.
func WithQuery(q url.Values) RequestOption {
	return func(r *request) {
		r.query = q
	}
}

// WithHeader sets a request header. Caller headers override defaults.
func WithHeader(key, value string) RequestOption {
	return func(r *request) {
		r.headers.Set(key, value)
	}
}

// WithJar sends cookies from jar and records response cookies into it.
func WithJar(jar http.CookieJar) RequestOption {
	return func(r *request) {
		r.jar = jar
	}
}

// Get performs a GET and decodes the JSON response into dst (nil discards it).
func (c *Client) Get(ctx context.Context, endpoint string, dst any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, dst, opts...)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, endpoint string, body, dst any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, dst, opts...)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, endpoint string, body, dst any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, dst, opts...)
}

// Delete performs a DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string, dst any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, dst, opts...)
}

// Do executes a request. Non-2xx responses are returned as *Error.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, dst any, opts ...RequestOption) error {
	rq := &request{headers: http.Header{}}
	for _, opt := range opts {
		opt(rq)
	}

	target, err := c.baseURL.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return fmt.Errorf("%w: endpoint %q: %w", ErrRequestFailed, endpoint, err)
	}
	if len(rq.query) > 0 {
		target.RawQuery = rq.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode body: %w", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range rq.headers {
		req.Header[key] = values
	}

	if rq.jar != nil {
		for _, ck := range rq.jar.Cookies(req.URL) {
			req.AddCookie(ck)
		}
	}

	for _, intercept := range c.interceptors {
		if err := intercept(req); err != nil {
			return fmt.Errorf("%w: interceptor: %w", ErrRequestFailed, err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream request failed",
			logger.Method(method), logger.Endpoint(endpoint), logger.Latency(time.Since(start)), logger.Error(err))
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if rq.jar != nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			rq.jar.SetCookies(req.URL, cookies)
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}

	c.logger.DebugContext(ctx, "upstream request",
		logger.Method(method), logger.Endpoint(endpoint),
		logger.UpstreamStatus(resp.StatusCode), logger.Latency(time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, raw)
	}

	if dst == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}
