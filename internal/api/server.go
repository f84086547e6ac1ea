package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusops/canvas-mcp/internal/canvas"
	mcpserver "github.com/campusops/canvas-mcp/internal/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerConfig contains configuration for creating the HTTP server.
type ServerConfig struct {
	Logger     *slog.Logger      // Optional: nil falls back to slog.Default()
	MCP        *mcpserver.Server // Required: the MCP server exposed on /mcp
	Provider   *canvas.Provider  // Required: backs the readiness probe
	TrustProxy bool              // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst  int               // Rate limiter burst size per IP (0 = default 60)
}

// Server is the streamable HTTP front end for the MCP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates an HTTP server with the MCP endpoint and health probes
// configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.MCP == nil {
		return nil, errors.New("mcp server is required")
	}
	if cfg.Provider == nil {
		return nil, errors.New("canvas provider is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	// MCP endpoint. The streamable handler owns GET (standalone SSE
	// stream), POST (JSON-RPC messages), and DELETE (session teardown)
	// on this one path.
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return cfg.MCP.MCPServer()
	}, nil))

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newIPRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Wrap with security headers
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Use a top-level mux to separate health probes from middleware stack
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Provider))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
