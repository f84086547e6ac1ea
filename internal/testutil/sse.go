package testutil

import (
	"bufio"
	"strings"
	"testing"
)

// SSEEvent represents a parsed Server-Sent Event.
type SSEEvent struct {
	Type string // event: value
	ID   string // id: value, set when the server assigns event IDs
	Data string // data: value (multi-line joined with \n)
}

// ParseSSEEvents parses an SSE stream into structured events. The MCP
// endpoint answers POSTed JSON-RPC requests with text/event-stream, so
// HTTP-level tests use this to get at the JSON-RPC payloads.
//
// Handles the W3C SSE spec:
//   - Multiple "data:" lines are joined with newline
//   - An empty line terminates an event
//   - data: before event: defaults the event type to "message"
//   - "id:" lines attach a resumption ID to the current event
//   - Comments starting with ":" are ignored
func ParseSSEEvents(t *testing.T, body string) []SSEEvent {
	t.Helper()

	var events []SSEEvent
	scanner := bufio.NewScanner(strings.NewReader(body))

	var currentEvent SSEEvent
	var dataLines []string
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			if currentEvent.Type != "" && len(dataLines) > 0 {
				t.Fatalf("SSE parse error at line %d: new event before previous event terminated (got %q)", lineNum, line)
			}
			currentEvent.Type = strings.TrimPrefix(line, "event: ")

		case strings.HasPrefix(line, "id: "):
			currentEvent.ID = strings.TrimPrefix(line, "id: ")

		case strings.HasPrefix(line, "data: "):
			// SSE spec: data before event defaults the type to "message"
			if currentEvent.Type == "" {
				currentEvent.Type = "message"
			}
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))

		case line == "":
			if currentEvent.Type != "" {
				currentEvent.Data = strings.Join(dataLines, "\n")
				events = append(events, currentEvent)
				currentEvent = SSEEvent{}
				dataLines = nil
			}

		default:
			if !strings.HasPrefix(line, ":") {
				t.Fatalf("SSE parse error at line %d: unexpected SSE line: %q", lineNum, line)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("SSE scan error: %v", err)
	}

	if currentEvent.Type != "" {
		t.Fatalf("SSE stream ended without terminating event %q (missing empty line)", currentEvent.Type)
	}

	return events
}

// FindEvent finds the first event of a given type in the parsed events.
// Returns nil if not found.
func FindEvent(events []SSEEvent, eventType string) *SSEEvent {
	for i := range events {
		if events[i].Type == eventType {
			return &events[i]
		}
	}
	return nil
}
