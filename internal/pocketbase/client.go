// Package pocketbase is a small client for the PocketBase REST API holding
// users, study sessions ("chats") and quiz attempts ("quiz_results").
package pocketbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/smartstudy/internal/logger"
)

// DefaultURL is used when no base URL is configured.
const DefaultURL = "http://127.0.0.1:8090"

// Client talks to one PocketBase instance. A Client is immutable; use
// WithToken to derive an authenticated copy.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	now     func() time.Time
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock overrides the clock used for local token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Client for baseURL. An empty baseURL means DefaultURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
		log:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string { return c.baseURL }

// checkToken fails locally for a missing token or one whose exp claim has
// passed. Tokens that don't parse as JWTs are left for the server to judge.
func (c *Client) checkToken() error {
	if c.token == "" {
		return &UnauthorizedError{Reason: "no session token; log in first"}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if !exp.After(c.now()) {
		return &UnauthorizedError{Reason: "session token expired; log in again"}
	}
	return nil
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.auth {
		if err := c.checkToken(); err != nil {
			return err
		}
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return &PersistenceError{Op: r.op, Err: fmt.Errorf("encode body: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return &PersistenceError{Op: r.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("pocketbase request failed", "op", r.op, "error", err)
		return &PersistenceError{Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("pocketbase request", "op", r.op, "method", r.method, "path", r.path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &PersistenceError{Op: r.op, Status: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &UnauthorizedError{Reason: errorMessage(raw, resp.Status), Status: resp.StatusCode}
	case resp.StatusCode >= 300:
		return &PersistenceError{Op: r.op, Status: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &PersistenceError{Op: r.op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts PocketBase's {"message": ...} or falls back to the
// raw body, then to the HTTP status text.
func errorMessage(raw []byte, status string) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return e.Message
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return status
}

// filterEq renders a PocketBase filter expression field="value".
// Backslashes are escaped before quotes so a trailing \ cannot consume the
// closing quote.
func filterEq(field, value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return fmt.Sprintf(`%s="%s"`, field, value)
}

func listQuery(filter, sort string, perPage int, expand string) url.Values {
	q := url.Values{}
	q.Set("filter", filter)
	q.Set("sort", sort)
	q.Set("perPage", fmt.Sprint(perPage))
	if expand != "" {
		q.Set("expand", expand)
	}
	return q
}

func recordsPath(collection string) string {
	return "/api/collections/" + collection + "/records"
}

func recordPath(collection, id string) string {
	return recordsPath(collection) + "/" + url.PathEscape(id)
}
