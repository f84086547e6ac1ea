// Package api provides the HTTP front end for the MCP server.
//
// # Architecture
//
// The server uses Go 1.22+ routing with a layered middleware stack:
//
//	Recovery → RequestID → Logging → RateLimit → /mcp
//
// Health probes (/health, /ready) bypass the middleware stack via a
// top-level mux, ensuring they remain fast and unthrottled.
//
// # Endpoints
//
// Health probes (no middleware):
//   - GET /health — liveness, returns {"status":"ok"}
//   - GET /ready  — readiness, includes whether Canvas credentials are set
//
// MCP (streamable HTTP transport, one path):
//   - POST   /mcp — JSON-RPC messages; responses stream as SSE
//   - GET    /mcp — standalone SSE stream for server-initiated messages
//   - DELETE /mcp — session teardown
//
// The /mcp handler is the SDK's streamable HTTP handler; session
// management, SSE framing, and resumption are its concern, not ours.
//
// # What is deliberately absent
//
// There are no cookies, no CSRF checks, and no CORS headers. MCP clients
// are agent processes, not browsers: authentication to Canvas happens
// server-side with the configured token, and the transport carries its
// own session header (Mcp-Session-Id).
//
// # Security
//
// The middleware stack enforces:
//   - Per-IP rate limiting (token bucket, 60 req/min burst by default)
//   - Panic recovery with sanitized 500 responses
//   - Security headers (X-Content-Type-Options, X-Frame-Options, CSP)
//
// HSTS is left to the TLS-terminating proxy in front of this server.
package api
