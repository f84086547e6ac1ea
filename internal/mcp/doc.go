// Package mcp implements the Model Context Protocol (MCP) server for
// canvas-mcp.
//
// The server exposes read-only Canvas LMS queries as MCP tools so that AI
// agents (Claude Code, Claude Desktop, Cursor, and other MCP clients) can answer
// questions about a student's courses, assignments, submissions, grades, and
// announcements. Every tool runs against the Canvas account whose API token
// the server was configured with; nothing is ever written back to Canvas.
//
// # Architecture
//
// The package is a thin protocol adapter over the toolsets in
// internal/tools:
//
//	MCP Client (Claude Code, Cursor, etc.)
//	     |
//	     | (MCP protocol over stdio or streamable HTTP)
//	     |
//	     v
//	Server (MCP SDK)
//	     |
//	     +-- account tools     (get_current_user, health)
//	     +-- course tools      (list_my_courses, get_my_course_grade,
//	     |                      list_course_announcements)
//	     +-- assignment tools  (list_course_assignments,
//	                            get_assignment_details, get_my_submission,
//	                            list_upcoming_assignments)
//
// Each tool follows the same pattern: an input struct with JSON tags and
// jsonschema descriptions, a schema inferred via jsonschema-go, a handler
// method on Server that delegates to a toolset, and resultToMCP to convert
// the toolset Result into protocol content.
//
// # Error Handling
//
// The server distinguishes two kinds of failure:
//
//   - Business errors (bad input, missing course, Canvas API rejections)
//     return a successful protocol response with IsError=true and a
//     structured error body, so agents can read the error and self-correct.
//
//   - Infrastructure errors (context cancellation, registration bugs)
//     return a Go error and surface as protocol-level failures.
//
// Error details sent to clients pass through a whitelist; see util.go.
//
// # Thread Safety
//
// The server is safe for concurrent use. Transport and session handling is
// managed by the MCP SDK, and the underlying toolsets guard their own state.
package mcp
