package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusops/canvas-mcp/internal/config"
)

// TestToken is the bearer token the fake Canvas instance expects.
const TestToken = "test-token"

// CanvasServer is a configurable fake Canvas REST instance. Tests
// register JSON fixtures per route and point a real client at URL().
// Every request is checked for the bearer token before routing.
type CanvasServer struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server
}

// NewCanvasServer starts a fake Canvas instance that shuts down with the
// test.
func NewCanvasServer(t *testing.T) *CanvasServer {
	t.Helper()

	c := &CanvasServer{t: t, mux: http.NewServeMux()}
	c.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer "+TestToken {
			t.Errorf("canvas request to %s carried Authorization %q, want %q", r.URL.Path, got, "Bearer "+TestToken)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		c.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(c.srv.Close)
	return c
}

// URL returns the fake instance's base URL.
func (c *CanvasServer) URL() string {
	return c.srv.URL
}

// Handle registers a custom handler for pattern. Patterns follow
// http.ServeMux syntax, e.g. "GET /api/v1/users/self/profile".
func (c *CanvasServer) Handle(pattern string, handler http.HandlerFunc) {
	c.mux.HandleFunc(pattern, handler)
}

// HandleJSON registers a fixed JSON body for pattern.
func (c *CanvasServer) HandleJSON(pattern, body string) {
	c.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := io.WriteString(w, body); err != nil {
			c.t.Errorf("writing fixture for %s: %v", pattern, err)
		}
	})
}

// HandleError registers a Canvas-style error response for pattern.
func (c *CanvasServer) HandleError(pattern string, status int, message string) {
	c.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		body := fmt.Sprintf(`{"errors": [{"message": %q}]}`, message)
		if _, err := io.WriteString(w, body); err != nil {
			c.t.Errorf("writing error fixture for %s: %v", pattern, err)
		}
	})
}

// Config returns a resolved server configuration pointing at the fake
// instance, with throttling loosened so tests never wait on the limiter.
func (c *CanvasServer) Config() *config.Config {
	return &config.Config{
		APIURL:           c.srv.URL,
		APIToken:         TestToken,
		PerPage:          config.DefaultPerPage,
		RequestTimeout:   5 * time.Second,
		RateLimit:        1000,
		RateBurst:        1000,
		MaxResponseBytes: config.DefaultMaxResponseBytes,
	}
}

// UnconfiguredConfig returns a configuration with no Canvas credentials,
// for exercising the degraded startup path.
func UnconfiguredConfig() *config.Config {
	return &config.Config{
		PerPage:          config.DefaultPerPage,
		RequestTimeout:   5 * time.Second,
		RateLimit:        config.DefaultRateLimit,
		RateBurst:        config.DefaultRateBurst,
		MaxResponseBytes: config.DefaultMaxResponseBytes,
	}
}

// ProfileJSON is a ready-made user profile fixture.
func ProfileJSON(id int64, name string) string {
	login := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@school.edu"
	return fmt.Sprintf(`{
		"id": %d,
		"name": %q,
		"sortable_name": %q,
		"short_name": %q,
		"login_id": %q,
		"primary_email": %q,
		"time_zone": "America/Denver",
		"locale": "en"
	}`, id, name, name, name, login, login)
}
