package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/campusops/canvas-mcp/internal/canvas"
)

// Status is the outcome of a tool invocation.
type Status string

const (
	// StatusSuccess marks a completed invocation whose Data is valid.
	StatusSuccess Status = "success"
	// StatusError marks a failed invocation; Error carries the cause.
	StatusError Status = "error"
)

// Error codes returned in Result.Error.Code. Agents branch on these to
// decide whether to correct their input, retry, or surface the failure.
const (
	// ErrCodeValidation means the input was malformed or out of range.
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotConfigured means Canvas credentials are missing on the server.
	ErrCodeNotConfigured = "NOT_CONFIGURED"
	// ErrCodeUnauthorized means Canvas rejected the configured token or the
	// user has no access to the requested resource.
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeNotFound means the course, assignment, or submission does not exist.
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAPI means Canvas answered with an unexpected error status.
	ErrCodeAPI = "API_ERROR"
	// ErrCodeNetwork means no usable response came back from Canvas.
	ErrCodeNetwork = "NETWORK_ERROR"
)

// Result is the uniform envelope every tool handler returns.
// Business errors ride in Error so the model can read and react to them;
// Go errors are reserved for infrastructure failures.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error is a structured, model-consumable failure description.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// errorFromCanvas maps a canvas client failure onto a structured tool
// error. HTTP statuses from Canvas select the code; transport failures
// collapse to ErrCodeNetwork with details kept in the server logs.
func errorFromCanvas(err error) *Error {
	if errors.Is(err, canvas.ErrNotConfigured) {
		return &Error{
			Code:    ErrCodeNotConfigured,
			Message: canvas.ErrNotConfigured.Error(),
		}
	}

	if apiErr, ok := canvas.AsAPIError(err); ok {
		code := ErrCodeAPI
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			code = ErrCodeNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			code = ErrCodeUnauthorized
		}
		return &Error{
			Code:    code,
			Message: apiErr.Message,
			Details: map[string]any{"status_code": apiErr.StatusCode},
		}
	}

	return &Error{
		Code:    ErrCodeNetwork,
		Message: "canvas request failed",
		Details: map[string]any{"hint": "check server logs for details"},
	}
}

// validationError builds an ErrCodeValidation result for a rejected input.
func validationError(message string, details map[string]any) Result {
	return Result{
		Status: StatusError,
		Error: &Error{
			Code:    ErrCodeValidation,
			Message: message,
			Details: details,
		},
	}
}

// canvasError builds a StatusError result from a canvas client failure.
func canvasError(err error) Result {
	return Result{
		Status: StatusError,
		Error:  errorFromCanvas(err),
	}
}

// fetchFailure converts a failed Canvas fetch into a handler return.
// Context cancellation is an infrastructure failure and surfaces as a Go
// error; everything else is a business error the model can react to.
func fetchFailure(ctx context.Context, op string, err error) (Result, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, fmt.Errorf("%s canceled: %w", op, ctxErr)
	}
	return canvasError(err), nil
}
