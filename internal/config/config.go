// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.canvas-mcp/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - Canvas: API base URL and access token (see CANVAS_API_URL / CANVAS_API_TOKEN)
//   - Client: page size, request timeout, outbound rate limit, response size cap
//   - Serve: proxy trust and per-IP rate burst for the HTTP transport
//   - Tracing: OTLP span export (see tracing.go)
//
// The Canvas credentials are deliberately OPTIONAL at load time. A server
// started without them still serves the protocol; the health tool reports
// which variables are missing and every Canvas-backed tool returns a
// configuration error on use. This mirrors how operators discover a
// misconfigured deployment: through the health check, not a crash loop.
//
// Security: the API token is never logged; config directory uses 0750
// permissions; MarshalJSON masks sensitive fields.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Environment variable names for the Canvas credentials. These are the
// documented configuration surface; the health tool reports presence
// keyed by these exact names.
const (
	EnvAPIURL   = "CANVAS_API_URL"
	EnvAPIToken = "CANVAS_API_TOKEN"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidAPIURL indicates the Canvas base URL is malformed.
	ErrInvalidAPIURL = errors.New("invalid Canvas API URL")

	// ErrInvalidPerPage indicates the pagination page size is out of range.
	ErrInvalidPerPage = errors.New("invalid per page")

	// ErrInvalidTimeout indicates the request timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid request timeout")

	// ErrInvalidRateLimit indicates the outbound rate limit is out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidRateBurst indicates a rate limiter burst size is out of range.
	ErrInvalidRateBurst = errors.New("invalid rate burst")

	// ErrInvalidResponseLimit indicates the response size cap is too small.
	ErrInvalidResponseLimit = errors.New("invalid response size limit")
)

const (
	// DefaultPerPage is the page size requested from Canvas list endpoints.
	// 100 is the maximum Canvas honors; larger values are silently clamped
	// server-side, so asking for more only hides the real page size.
	DefaultPerPage = 100

	// MaxPerPage is the upper bound accepted for per_page.
	MaxPerPage = 100

	// DefaultRequestTimeout bounds a single Canvas HTTP request.
	DefaultRequestTimeout = 30 * time.Second

	// MaxRequestTimeout is the upper bound accepted for request_timeout.
	MaxRequestTimeout = 5 * time.Minute

	// DefaultRateLimit is the sustained outbound requests/second to Canvas.
	DefaultRateLimit = 10.0

	// DefaultRateBurst is the outbound burst allowance to Canvas.
	DefaultRateBurst = 30

	// DefaultMaxResponseBytes caps a single Canvas response body (5MB).
	DefaultMaxResponseBytes int64 = 5 * 1024 * 1024

	// MinResponseBytes is the smallest accepted response cap (64KB).
	MinResponseBytes int64 = 64 * 1024

	// DefaultHTTPRateBurst is the per-IP burst for the serve transport.
	DefaultHTTPRateBurst = 60
)

// Config stores application configuration.
// SECURITY: Sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (tokens, keys), update MarshalJSON.
type Config struct {
	// Canvas API connection
	APIURL   string `mapstructure:"api_url" json:"api_url"`     // Canvas instance base URL (e.g., "https://school.instructure.com")
	APIToken string `mapstructure:"api_token" json:"api_token"` // SENSITIVE: masked in MarshalJSON

	// Canvas client behavior
	PerPage          int           `mapstructure:"per_page" json:"per_page"`                     // page size for list endpoints (1-100)
	RequestTimeout   time.Duration `mapstructure:"request_timeout" json:"request_timeout"`      // per-request timeout
	RateLimit        float64       `mapstructure:"rate_limit" json:"rate_limit"`                 // sustained outbound requests/sec
	RateBurst        int           `mapstructure:"rate_burst" json:"rate_burst"`                 // outbound burst allowance
	MaxResponseBytes int64         `mapstructure:"max_response_bytes" json:"max_response_bytes"` // single response body cap

	// Serve mode (HTTP transport)
	TrustProxy    bool `mapstructure:"trust_proxy" json:"trust_proxy"`         // Trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
	HTTPRateBurst int  `mapstructure:"http_rate_burst" json:"http_rate_burst"` // per-IP burst (0 = default 60)

	// Observability configuration (see tracing.go for type definition)
	Tracing TracingConfig `mapstructure:"tracing" json:"tracing"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	// Configuration directory: ~/.canvas-mcp/
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".canvas-mcp")

	// Ensure directory exists (use 0750 permission for better security)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	// Configure Viper
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	// Set default values
	setDefaults()

	// Bind environment variables
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	// Use Unmarshal to automatically map to struct (type-safe)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// CRITICAL: Validate immediately (fail-fast for everything except
	// the optional Canvas credentials)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Canvas client defaults
	viper.SetDefault("per_page", DefaultPerPage)
	viper.SetDefault("request_timeout", DefaultRequestTimeout)
	viper.SetDefault("rate_limit", DefaultRateLimit)
	viper.SetDefault("rate_burst", DefaultRateBurst)
	viper.SetDefault("max_response_bytes", DefaultMaxResponseBytes)

	// Proxy trust (default: false — safe for direct exposure; set true behind reverse proxy)
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("http_rate_burst", DefaultHTTPRateBurst)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.endpoint", DefaultTracingEndpoint)
	viper.SetDefault("tracing.environment", "dev")
	viper.SetDefault("tracing.service_name", "canvas-mcp")
}

// bindEnvVariables binds environment variables explicitly.
// The two Canvas variables are the documented configuration surface;
// the CANVAS_MCP_* overrides exist for serve-mode deployments.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail)
	// If this panics, it's a BUG in our code, not a runtime error
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	// Canvas credentials
	mustBind("api_url", EnvAPIURL)
	mustBind("api_token", EnvAPIToken)

	// Proxy trust (serve mode, behind reverse proxy)
	mustBind("trust_proxy", "CANVAS_MCP_TRUST_PROXY")

	// Per-IP rate burst (serve mode)
	mustBind("http_rate_burst", "CANVAS_MCP_RATE_BURST")

	// OTLP exporter endpoint
	mustBind("tracing.endpoint", "CANVAS_MCP_OTLP_ENDPOINT")
}

// Configured reports whether both Canvas credentials are present.
// Tools that reach Canvas refuse to run until this is true.
func (c *Config) Configured() bool {
	return c.APIURL != "" && c.APIToken != ""
}

// EnvPresence maps each credential's env var name to whether the
// resolved configuration carries a value for it. Values supplied via
// config file count as present: the health check asks "can this server
// reach Canvas", not "which source supplied the credential".
func (c *Config) EnvPresence() map[string]bool {
	return map[string]bool{
		EnvAPIURL:   c.APIURL != "",
		EnvAPIToken: c.APIToken != "",
	}
}

// maskedValue is the placeholder for masked sensitive data.
// Using ████████ (full-width blocks U+2588) to avoid substring matching
// against real token fragments.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Shows first 2 and last 2 characters, masks the rest.
// SECURITY: For secrets <=8 chars, fully masks to prevent substring attacks.
//
// THREAT MODEL: This defends against accidental logging of real tokens.
// It is NOT cryptographically secure - if logs are compromised, rotate
// the Canvas token.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	// Fully mask short secrets to prevent substring matching attacks
	if len(s) <= 8 {
		return maskedValue
	}
	// For longer secrets, show first/last 2 chars for debug utility
	// Example: "10392~wAcs...Qy7f" → "10<████████>7f"
	prefix := make([]byte, 2)
	suffix := make([]byte, 2)
	copy(prefix, s[:2])
	copy(suffix, s[len(s)-2:])
	return string(prefix) + "<" + maskedValue + ">" + string(suffix)
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
//
// Sensitive fields masked:
//   - APIToken
//
// When adding new sensitive fields, update this method.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.APIToken = maskSecret(a.APIToken)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
