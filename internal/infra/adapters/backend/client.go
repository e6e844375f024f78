// Package backend is the HTTP client for the pit wall analytics backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pitwall-gateway/internal/domain"
	"pitwall-gateway/internal/domain/ports/adapter"

	"github.com/tidwall/gjson"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.BackendAdapter = (*Client)(nil)

const (
	sessionPath = "/users/request-session"
	chatPath    = "/chat/chat/"

	// NoResponsePlaceholder is returned when a successful chat reply carries no text.
	NoResponsePlaceholder = "No response from the pit wall"
)

// Client talks to the two fixed backend endpoints. It never retries.
type Client struct {
	base   string // e.g., http://localhost:8000/api/v1
	origin string
	client *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("backend url must be absolute")
	}
	return &Client{
		base:   base,
		origin: u.Scheme + "://" + u.Host,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPClient swaps the underlying transport (tests, custom TLS).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

func (c *Client) Origin() string { return c.origin }

// RequestSession calls POST /users/request-session. The body must be a JSON string.
func (c *Client) RequestSession(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+sessionPath, nil)
	if err != nil {
		return "", domain.Transport("build session request", err)
	}

	body, status, err := c.do(req)
	if err != nil {
		return "", domain.Transport("request session", err)
	}
	if !ok(status) {
		return "", &domain.StatusError{Kind: domain.ErrSessionRequestFailed, Code: status}
	}
	if !gjson.ValidBytes(body) {
		return "", domain.Transport("decode session response", errors.New("malformed json"))
	}
	v := gjson.ParseBytes(body)
	if v.Type != gjson.String || v.Str == "" {
		return "", domain.ErrInvalidSessionResponse
	}
	return v.Str, nil
}

type chatRequest struct {
	Content string `json:"content"`
}

// Chat calls POST /chat/chat/{sessionID}. The reply text is the "response" field,
// then "message", then NoResponsePlaceholder.
func (c *Client) Chat(ctx context.Context, sessionID, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{Content: prompt})
	if err != nil {
		return "", domain.Transport("encode chat request", err)
	}
	endpoint := c.base + chatPath + url.PathEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", domain.Transport("build chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return "", domain.Transport("send chat", err)
	}
	if !ok(status) {
		return "", &domain.StatusError{Kind: domain.ErrChatHTTP, Code: status}
	}
	if !gjson.ValidBytes(body) {
		return "", domain.Transport("decode chat response", errors.New("malformed json"))
	}
	for _, r := range gjson.GetManyBytes(body, "response", "message") {
		if truthy(r) {
			return r.String(), nil
		}
	}
	return NoResponsePlaceholder, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return b, resp.StatusCode, nil
}

func ok(status int) bool { return status >= 200 && status < 300 }

// truthy mirrors how a loosely typed client treats a field: empty strings, zero,
// false and null fall through to the next candidate. Objects and arrays are taken
// and returned as their raw JSON text, not a language-specific string coercion.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
