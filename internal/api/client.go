// Package api is the HTTP client for the Smart MCQ backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/smartmcq/internal/store"
)

// DefaultTimeout bounds each backend call when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// Client issues backend calls. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	httpClient *http.Client
	eventRepo  store.EventRepo
	token      string
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithHTTPClient uses hc instead of a fresh http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithEventRepo records every round trip in repo.
func WithEventRepo(repo store.EventRepo) Option {
	return func(o *clientOptions) { o.eventRepo = repo }
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = token }
}

// New returns a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}

	o := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: o.timeout}
	}
	if o.eventRepo != nil {
		inner := hc.Transport
		if inner == nil {
			inner = http.DefaultTransport
		}
		wrapped := *hc
		wrapped.Transport = &loggingTransport{inner: inner, eventRepo: o.eventRepo}
		hc = &wrapped
	}

	return &Client{baseURL: u, http: hc, token: o.token}, nil
}

// SetToken replaces the bearer token sent with every call.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// do sends a JSON request and decodes a JSON response into out. Failures are
// returned as *Error of the given kind.
func (c *Client) do(ctx context.Context, kind Kind, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: kind, Message: kind.Fallback(), Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return &Error{Kind: kind, Message: kind.Fallback(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: kind, Message: kind.Fallback(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: kind, Status: resp.StatusCode, Message: kind.Fallback(), Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := backendMessage(respBody)
		if msg == "" {
			msg = kind.Fallback()
		}
		return &Error{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: msg,
			Err:     fmt.Errorf("%s %s: %s", method, path, resp.Status),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: kind, Status: resp.StatusCode, Message: kind.Fallback(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, KindLoad, http.MethodGet, path, nil, out)
}

// pathf builds a path with every argument path-escaped.
func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
