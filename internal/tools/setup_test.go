package tools

import (
	"testing"

	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/config"
	"github.com/campusops/canvas-mcp/internal/log"
	"github.com/campusops/canvas-mcp/internal/testutil"
)

// newProvider builds a canvas provider aimed at the fake instance.
func newProvider(t *testing.T, srv *testutil.CanvasServer) *canvas.Provider {
	t.Helper()

	provider, err := canvas.NewProvider(srv.Config(), log.NewNop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	return provider
}

// providerFor builds a provider from an arbitrary configuration.
func providerFor(t *testing.T, cfg *config.Config) *canvas.Provider {
	t.Helper()

	provider, err := canvas.NewProvider(cfg, log.NewNop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	return provider
}

// requireSuccess fails the test unless result carries StatusSuccess.
func requireSuccess(t *testing.T, result Result) {
	t.Helper()

	if result.Status != StatusSuccess {
		t.Fatalf("result.Status = %q, want %q (error: %+v)", result.Status, StatusSuccess, result.Error)
	}
}

// requireErrorCode fails the test unless result carries StatusError with
// the given code.
func requireErrorCode(t *testing.T, result Result, code string) {
	t.Helper()

	if result.Status != StatusError {
		t.Fatalf("result.Status = %q, want %q", result.Status, StatusError)
	}
	if result.Error == nil {
		t.Fatal("result.Error = nil, want structured error")
	}
	if result.Error.Code != code {
		t.Fatalf("result.Error.Code = %q, want %q (message: %s)", result.Error.Code, code, result.Error.Message)
	}
}
