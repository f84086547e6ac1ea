package api

import (
	"net/http"

	"github.com/campusops/canvas-mcp/internal/canvas"
)

// health is a simple liveness endpoint for Docker/Kubernetes probes.
// Returns 200 OK with {"status":"ok"}.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness reports whether the server can answer Canvas queries. The
// server accepts MCP traffic even without credentials (tools then return
// NOT_CONFIGURED), so the probe stays 200 and the body carries the
// configuration state for operators.
func readiness(provider *canvas.Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":            "ok",
			"canvas_configured": provider.Configured(),
		})
	})
}
