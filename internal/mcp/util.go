package mcp

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/campusops/canvas-mcp/internal/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCP Error Detail Whitelist Policy:
// - status_code: Safe (HTTP status returned by the Canvas API)
// - course_id: Safe (echoes an ID the client supplied)
// - assignment_id: Safe (echoes an ID the client supplied)
// - user_message: Safe (user-facing message only)
// - hint: Safe (remediation hint written for clients)
//
// NEVER expose:
// - raw Canvas response bodies
// - request URLs (they embed the institution's Canvas host)
// - environment variables
// - API tokens
//
// Reference: MCP Protocol error handling best practices

// resultToMCP converts a tools.Result to mcp.CallToolResult.
// This follows the Direct Inline Handling principle but extracts the common pattern.
// If logger is nil, falls back to slog.Default().
func resultToMCP(result tools.Result, logger *slog.Logger) *mcp.CallToolResult {
	if logger == nil {
		logger = slog.Default()
	}

	if result.Status == tools.StatusError {
		errorText := fmt.Sprintf("[%s] %s", result.Error.Code, result.Error.Message)
		if result.Error.Details != nil {
			// Sanitize error details before exposing to clients
			sanitized := sanitizeErrorDetails(result.Error.Details)
			if len(sanitized) > 0 {
				detailsJSON, err := json.Marshal(sanitized)
				if err != nil {
					// Log internal error, don't expose to client
					logger.Warn("marshaling sanitized error details", "error", err)
					errorText += "\nDetails: (see server logs)"
				} else {
					errorText += fmt.Sprintf("\nDetails: %s", string(detailsJSON))
				}
			}

			// Always log full details server-side for debugging
			logger.Debug("MCP error details", "details", result.Error.Details)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: errorText}},
			IsError: true,
		}
	}

	// Success - return data as JSON
	return dataToMCP(result.Data)
}

// dataToMCP converts arbitrary data to MCP text content via JSON marshaling.
// This is the simple, unified approach: all data becomes JSON, clients parse it.
func dataToMCP(data any) *mcp.CallToolResult {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: ""}},
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "marshal error"}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// sanitizeErrorDetails extracts only safe, whitelisted fields from error details.
// Everything else (response bodies, URLs, tokens) is redacted.
func sanitizeErrorDetails(details any) map[string]any {
	safe := make(map[string]any)

	// Type-assert to map
	detailsMap, ok := details.(map[string]any)
	if !ok {
		return safe
	}

	// Whitelist of safe fields (expand conservatively)
	safeFields := map[string]bool{
		"status_code":   true, // HTTP status from Canvas
		"course_id":     true, // Client-supplied identifier
		"assignment_id": true, // Client-supplied identifier
		"user_message":  true, // User-facing message only
		"hint":          true, // Remediation hint for clients
	}

	for key, val := range detailsMap {
		if safeFields[key] {
			safe[key] = val
		}
	}

	return safe
}
