//go:build !integration

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pitwall-gateway/internal/domain"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/v1/", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	hc := srv.Client()
	hc.Timeout = 5 * time.Second
	return c.WithHTTPClient(hc)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("http://localhost:8000/api/v1/", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if c.Origin() != "http://localhost:8000" {
		t.Fatalf("origin = %q", c.Origin())
	}
	if _, err := NewClient("/api/v1", time.Second); err == nil {
		t.Fatal("relative url must be rejected")
	}
}

func TestRequestSession(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{name: "plain string", status: http.StatusOK, body: `"abc123"`, want: "abc123"},
		{name: "number body", status: http.StatusOK, body: `42`, wantErr: domain.ErrInvalidSessionResponse},
		{name: "empty string", status: http.StatusOK, body: `""`, wantErr: domain.ErrInvalidSessionResponse},
		{name: "object body", status: http.StatusOK, body: `{"id":"abc"}`, wantErr: domain.ErrInvalidSessionResponse},
		{name: "null body", status: http.StatusOK, body: `null`, wantErr: domain.ErrInvalidSessionResponse},
		{name: "malformed json", status: http.StatusOK, body: `"abc`, wantErr: domain.ErrTransport},
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`, wantErr: domain.ErrSessionRequestFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/v1/users/request-session" {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			got, err := c.RequestSession(context.Background())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("got %q, %v", got, err)
			}
		})
	}
}

func TestRequestSessionStatusCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := c.RequestSession(context.Background())
	var se *domain.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("want StatusError 503, got %v", err)
	}
}

func TestChat(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "response field", status: 200, body: `{"response":"Lap times nominal"}`, want: "Lap times nominal"},
		{name: "message fallback", status: 200, body: `{"message":"Box this lap"}`, want: "Box this lap"},
		{name: "empty response falls through", status: 200, body: `{"response":"","message":"Box this lap"}`, want: "Box this lap"},
		{name: "placeholder", status: 200, body: `{"other":1}`, want: NoResponsePlaceholder},
		{name: "non object body", status: 200, body: `"just text"`, want: NoResponsePlaceholder},
		{name: "created status", status: 201, body: `{"response":"ok"}`, want: "ok"},
		{name: "object response kept as raw json", status: 200, body: `{"response":{"lap":12}}`, want: `{"lap":12}`},
		{name: "array response kept as raw json", status: 200, body: `{"response":["soft","medium"]}`, want: `["soft","medium"]`},
		{name: "numeric response", status: 200, body: `{"response":42}`, want: "42"},
		{name: "false falls through", status: 200, body: `{"response":false,"message":"Box this lap"}`, want: "Box this lap"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			got, err := c.Chat(context.Background(), "abc123", "hello")
			if err != nil || got != tc.want {
				t.Fatalf("got %q, %v; want %q", got, err, tc.want)
			}
		})
	}
}

func TestChatRequestShape(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.EscapedPath() != "/api/v1/chat/chat/a%2Fb%20c" {
			t.Errorf("path = %s", r.URL.EscapedPath())
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(body) != 1 || body["content"] != "hello" {
			t.Errorf("body = %v", body)
		}
		_, _ = io.WriteString(w, `{"response":"ok"}`)
	}))
	if _, err := c.Chat(context.Background(), "a/b c", "hello"); err != nil {
		t.Fatal(err)
	}
}

func TestChatFailures(t *testing.T) {
	t.Run("http 500", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		_, err := c.Chat(context.Background(), "abc123", "hello")
		if !errors.Is(err, domain.ErrChatHTTP) || err.Error() != "HTTP error! status: 500" {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"response":`)
		}))
		_, err := c.Chat(context.Background(), "abc123", "hello")
		if !errors.Is(err, domain.ErrTransport) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()
		c, err := NewClient(base, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		_, err = c.Chat(context.Background(), "abc123", "hello")
		if !errors.Is(err, domain.ErrTransport) {
			t.Fatalf("err = %v", err)
		}
	})
}
