package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campusops/canvas-mcp/internal/testutil"
)

const initializeRequest = `{
	"jsonrpc": "2.0",
	"id": 1,
	"method": "initialize",
	"params": {
		"protocolVersion": "2025-03-26",
		"capabilities": {},
		"clientInfo": {"name": "probe", "version": "0.0.1"}
	}
}`

// postMCP sends one JSON-RPC payload to the /mcp endpoint.
func postMCP(t *testing.T, client *http.Client, baseURL, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/mcp", strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	return resp
}

// TestMCPEndpoint_Initialize drives the streamable HTTP transport over a
// real TCP listener: initialize must answer over SSE with the server
// identity and assign a session ID.
func TestMCPEndpoint_Initialize(t *testing.T) {
	srv := newTestServer(t, testutil.UnconfiguredConfig(), 0)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp := postMCP(t, ts.Client(), ts.URL, initializeRequest)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST /mcp status = %d, want %d\nbody: %s", resp.StatusCode, http.StatusOK, body)
	}
	if got := resp.Header.Get("Mcp-Session-Id"); got == "" {
		t.Error("POST /mcp did not assign Mcp-Session-Id")
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("POST /mcp Content-Type = %q, want text/event-stream", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading SSE body: %v", err)
	}

	events := testutil.ParseSSEEvents(t, string(body))
	msg := testutil.FindEvent(events, "message")
	if msg == nil {
		t.Fatalf("no message event in SSE stream:\n%s", body)
	}

	var rpc struct {
		Result struct {
			ServerInfo struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(msg.Data), &rpc); err != nil {
		t.Fatalf("parsing initialize response: %v\ndata: %s", err, msg.Data)
	}
	if rpc.Result.ServerInfo.Name != "canvas-mcp-test" {
		t.Errorf("serverInfo.name = %q, want %q", rpc.Result.ServerInfo.Name, "canvas-mcp-test")
	}
	if rpc.Result.ServerInfo.Version != "0.0.1" {
		t.Errorf("serverInfo.version = %q, want %q", rpc.Result.ServerInfo.Version, "0.0.1")
	}
}

func TestMCPEndpoint_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, testutil.UnconfiguredConfig(), 0)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp := postMCP(t, ts.Client(), ts.URL, "{not json")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /mcp with bad JSON status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

// TestMCPEndpoint_MiddlewareApplied verifies that /mcp responses pass
// through the middleware stack and its header contract.
func TestMCPEndpoint_MiddlewareApplied(t *testing.T) {
	srv := newTestServer(t, testutil.UnconfiguredConfig(), 0)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp := postMCP(t, ts.Client(), ts.URL, initializeRequest)
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("POST /mcp response missing X-Request-ID header")
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
}
