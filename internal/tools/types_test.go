package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/campusops/canvas-mcp/internal/canvas"
)

// TestResult_JSONSerialization tests Result can be serialized to JSON.
func TestResult_JSONSerialization(t *testing.T) {
	result := Result{
		Status:  StatusSuccess,
		Message: "Test message",
		Data: map[string]any{
			"key": "value",
		},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal Result: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal Result: %v", err)
	}

	if decoded["status"] != string(StatusSuccess) {
		t.Errorf("status = %v, want %v", decoded["status"], StatusSuccess)
	}
	if decoded["message"] != "Test message" {
		t.Errorf("message = %v, want Test message", decoded["message"])
	}
	if _, present := decoded["error"]; present {
		t.Error("error key present on success result, want omitted")
	}
}

func TestErrorFromCanvas(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "not configured",
			err:      canvas.ErrNotConfigured,
			wantCode: ErrCodeNotConfigured,
		},
		{
			name:     "wrapped not configured",
			err:      fmt.Errorf("outer: %w", canvas.ErrNotConfigured),
			wantCode: ErrCodeNotConfigured,
		},
		{
			name:     "404 maps to not found",
			err:      &canvas.APIError{StatusCode: 404, Message: "missing"},
			wantCode: ErrCodeNotFound,
		},
		{
			name:     "401 maps to unauthorized",
			err:      &canvas.APIError{StatusCode: 401, Message: "bad token"},
			wantCode: ErrCodeUnauthorized,
		},
		{
			name:     "403 maps to unauthorized",
			err:      &canvas.APIError{StatusCode: 403, Message: "no access"},
			wantCode: ErrCodeUnauthorized,
		},
		{
			name:     "500 maps to api error",
			err:      &canvas.APIError{StatusCode: 500, Message: "boom"},
			wantCode: ErrCodeAPI,
		},
		{
			name:     "transport failure maps to network error",
			err:      errors.New("connection refused"),
			wantCode: ErrCodeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toolErr := errorFromCanvas(tt.err)
			if toolErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", toolErr.Code, tt.wantCode)
			}
			if toolErr.Message == "" {
				t.Error("Message is empty")
			}
		})
	}
}

func TestErrorFromCanvas_StatusCodeDetail(t *testing.T) {
	toolErr := errorFromCanvas(&canvas.APIError{StatusCode: 404, Message: "missing"})
	if got := toolErr.Details["status_code"]; got != 404 {
		t.Errorf("Details[status_code] = %v, want 404", got)
	}
}

func TestFetchFailure(t *testing.T) {
	t.Run("live context yields business error", func(t *testing.T) {
		result, err := fetchFailure(context.Background(), "fetching thing", errors.New("boom"))
		if err != nil {
			t.Fatalf("fetchFailure() error = %v, want nil", err)
		}
		requireErrorCode(t, result, ErrCodeNetwork)
	})

	t.Run("canceled context yields go error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetchFailure(ctx, "fetching thing", ctx.Err())
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("fetchFailure() error = %v, want context.Canceled", err)
		}
	})
}
