package canvas

import (
	"errors"
	"fmt"
	"sync"

	"github.com/campusops/canvas-mcp/internal/config"
	"github.com/campusops/canvas-mcp/internal/log"
)

// ErrNotConfigured is returned when a tool needs the Canvas API but the
// server was started without credentials.
var ErrNotConfigured = errors.New("canvas API is not configured: set CANVAS_API_URL and CANVAS_API_TOKEN")

// Provider hands out a shared Client, constructing it on first use.
// The server deliberately starts even when credentials are missing so
// the health tool can report what is absent; every other tool receives
// ErrNotConfigured through here until the environment is fixed.
type Provider struct {
	cfg    *config.Config
	logger log.Logger

	mu     sync.Mutex
	client *Client
}

// NewProvider creates a Provider backed by the resolved configuration.
func NewProvider(cfg *config.Config, logger log.Logger) (*Provider, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Provider{cfg: cfg, logger: logger}, nil
}

// Client returns the shared Canvas client, building it on the first
// successful call. Only a successfully constructed client is memoized.
func (p *Provider) Client() (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if !p.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	client, err := New(Config{
		BaseURL:          p.cfg.APIURL,
		Token:            p.cfg.APIToken,
		PerPage:          p.cfg.PerPage,
		Timeout:          p.cfg.RequestTimeout,
		RateLimit:        p.cfg.RateLimit,
		RateBurst:        p.cfg.RateBurst,
		MaxResponseBytes: p.cfg.MaxResponseBytes,
		Logger:           p.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create canvas client: %w", err)
	}

	p.client = client
	return client, nil
}

// Configured reports whether both the API URL and token are present.
func (p *Provider) Configured() bool {
	return p.cfg.Configured()
}

// EnvPresence reports which credential variables are set, keyed by
// environment variable name. Values are never exposed.
func (p *Provider) EnvPresence() map[string]bool {
	return p.cfg.EnvPresence()
}
