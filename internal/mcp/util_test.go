package mcp

import (
	"reflect"
	"strings"
	"testing"

	"github.com/campusops/canvas-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textOf extracts the first text content item from a tool result.
func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] type = %T, want *mcp.TextContent", result.Content[0])
	}
	return textContent.Text
}

func TestResultToMCP_Success(t *testing.T) {
	result := resultToMCP(tools.Result{
		Status: tools.StatusSuccess,
		Data:   map[string]any{"id": 42},
	}, nil)

	if result.IsError {
		t.Fatal("resultToMCP() IsError = true, want false")
	}
	if got, want := textOf(t, result), `{"id":42}`; got != want {
		t.Errorf("resultToMCP() text = %q, want %q", got, want)
	}
}

func TestResultToMCP_SuccessNilData(t *testing.T) {
	result := resultToMCP(tools.Result{Status: tools.StatusSuccess}, nil)

	if result.IsError {
		t.Fatal("resultToMCP() IsError = true, want false")
	}
	if got := textOf(t, result); got != "" {
		t.Errorf("resultToMCP() text = %q, want empty", got)
	}
}

func TestResultToMCP_Error(t *testing.T) {
	result := resultToMCP(tools.Result{
		Status: tools.StatusError,
		Error: &tools.Error{
			Code:    tools.ErrCodeNotFound,
			Message: "course or assignment not found",
		},
	}, nil)

	if !result.IsError {
		t.Fatal("resultToMCP() IsError = false, want true")
	}
	want := "[NOT_FOUND] course or assignment not found"
	if got := textOf(t, result); got != want {
		t.Errorf("resultToMCP() text = %q, want %q", got, want)
	}
}

// TestResultToMCP_ErrorDetailsWhitelisted verifies that whitelisted detail
// fields reach the client while everything else is redacted.
func TestResultToMCP_ErrorDetailsWhitelisted(t *testing.T) {
	result := resultToMCP(tools.Result{
		Status: tools.StatusError,
		Error: &tools.Error{
			Code:    tools.ErrCodeAPI,
			Message: "canvas rejected the request",
			Details: map[string]any{
				"status_code": 422,
				"request_url": "https://canvas.example.edu/api/v1/courses/101",
			},
		},
	}, nil)

	if !result.IsError {
		t.Fatal("resultToMCP() IsError = false, want true")
	}
	text := textOf(t, result)
	if !strings.Contains(text, `"status_code":422`) {
		t.Errorf("resultToMCP() text = %q, want status_code detail", text)
	}
	if strings.Contains(text, "request_url") {
		t.Errorf("resultToMCP() text = %q, leaked a non-whitelisted field", text)
	}
}

func TestResultToMCP_ErrorDetailsAllStripped(t *testing.T) {
	result := resultToMCP(tools.Result{
		Status: tools.StatusError,
		Error: &tools.Error{
			Code:    tools.ErrCodeNetwork,
			Message: "canvas request failed",
			Details: map[string]any{"internal_trace": "goroutine 1 [running]"},
		},
	}, nil)

	text := textOf(t, result)
	if strings.Contains(text, "Details:") {
		t.Errorf("resultToMCP() text = %q, want no Details suffix when all fields are stripped", text)
	}
}

func TestDataToMCP_MarshalError(t *testing.T) {
	result := dataToMCP(make(chan int))

	if !result.IsError {
		t.Fatal("dataToMCP() IsError = false, want true for unmarshalable data")
	}
	if got := textOf(t, result); got != "marshal error" {
		t.Errorf("dataToMCP() text = %q, want %q", got, "marshal error")
	}
}

func TestSanitizeErrorDetails(t *testing.T) {
	tests := []struct {
		name    string
		details any
		want    map[string]any
	}{
		{
			name: "mixed keys",
			details: map[string]any{
				"status_code": 404,
				"course_id":   int64(101),
				"hint":        "check server logs for details",
				"api_token":   "secret",
				"stack":       "goroutine 1 [running]",
			},
			want: map[string]any{
				"status_code": 404,
				"course_id":   int64(101),
				"hint":        "check server logs for details",
			},
		},
		{
			name:    "not a map",
			details: "plain string",
			want:    map[string]any{},
		},
		{
			name:    "nil details",
			details: nil,
			want:    map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeErrorDetails(tt.details)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sanitizeErrorDetails() = %v, want %v", got, tt.want)
			}
		})
	}
}
