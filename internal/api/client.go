// Package api is the HTTP client for the EduPlay admin API.
//
// The client is the only place that talks to the network. It attaches the
// bearer token from an explicitly passed session store, classifies failures
// as TransportError or HTTPError, and clears the session when the API
// rejects a token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
	"github.com/felixgeelhaar/eduplay-console/internal/log"
	"github.com/felixgeelhaar/eduplay-console/internal/session"
	"github.com/felixgeelhaar/eduplay-console/internal/version"
)

// DefaultBaseURL is where a locally started backend listens.
const DefaultBaseURL = "http://localhost:8000/api"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client is the EduPlay admin API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      session.Store
	logger     *log.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client for baseURL that authenticates with the token
// held by store.
func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		store:      store,
		logger:     log.Discard(),
		userAgent:  version.GetInfo().UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns the store the client reads its token from.
func (c *Client) Session() session.Store { return c.store }

// Do performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response.
//
// There are no retries and no client-side timeout; cancel ctx to abort.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, true)
}

// doAnon sends a request without credentials. A 401 on it never touches
// the stored session.
func (c *Client) doAnon(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, withAuth bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return conerr.Wrap(conerr.ErrCodeAPIEncode, "failed to encode request body", err)
		}
		reqBody = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var token string
	var authenticated bool
	if withAuth {
		token, authenticated = c.store.Token()
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := c.logger.With("method", method, "path", path, "request_id", requestID)
	logger.DebugContext(ctx, "api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WarnContext(ctx, "api request failed", "error", err)
		return &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	logger = logger.With("status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		herr := &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(resp.StatusCode, data),
			RequestID:  requestID,
		}

		if resp.StatusCode == http.StatusUnauthorized && authenticated {
			c.dropRejected(ctx, logger, token)
		} else {
			logger.DebugContext(ctx, "api error", "detail", herr.Detail)
		}
		return herr
	}

	logger.DebugContext(ctx, "api response")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return conerr.Wrap(conerr.ErrCodeAPIDecode, "failed to decode "+method+" "+path+" response", err)
	}
	return nil
}

// dropRejected clears the session only while it still holds the token the
// API rejected. A token stored by a concurrent login survives.
func (c *Client) dropRejected(ctx context.Context, logger *log.Logger, rejected string) {
	if cur, ok := c.store.Token(); !ok || cur != rejected {
		logger.DebugContext(ctx, "rejected token already replaced, session kept")
		return
	}
	if err := c.store.Clear(); err != nil {
		logger.WarnContext(ctx, "failed to clear rejected session", "error", err)
		return
	}
	logger.InfoContext(ctx, "session rejected by API, cleared")
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post is Do with POST.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put is Do with PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete is Do with DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}
