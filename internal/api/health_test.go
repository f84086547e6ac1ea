package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/log"
	"github.com/campusops/canvas-mcp/internal/testutil"
)

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	health(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("health() status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	decodeData(t, w, &body)

	if body["status"] != "ok" {
		t.Errorf("health() status = %q, want %q", body["status"], "ok")
	}
}

func TestReadiness_Unconfigured(t *testing.T) {
	provider, err := canvas.NewProvider(testutil.UnconfiguredConfig(), log.NewNop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ready", nil)

	readiness(provider).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("readiness() status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	decodeData(t, w, &body)
	if body["canvas_configured"] != false {
		t.Errorf("readiness() canvas_configured = %v, want false", body["canvas_configured"])
	}
}
