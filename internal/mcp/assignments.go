package mcp

import (
	"context"
	"fmt"

	"github.com/campusops/canvas-mcp/internal/tools"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerAssignmentTools registers the assignment and submission tools.
// Tools: list_course_assignments, get_assignment_details, get_my_submission,
// list_upcoming_assignments
func (s *Server) registerAssignmentTools() error {
	// list_course_assignments
	listAssignmentsSchema, err := jsonschema.For[tools.ListAssignmentsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.ListAssignmentsName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.ListAssignmentsName,
		Description: "List the assignments of one course. Optionally narrow the list with " +
			"a Canvas bucket filter (past, overdue, undated, ungraded, unsubmitted, " +
			"upcoming, future) or a title search term. Returns summary fields per " +
			"assignment; use get_assignment_details when the full description is needed.",
		InputSchema: listAssignmentsSchema,
	}, s.ListAssignments)

	// get_assignment_details
	assignmentDetailsSchema, err := jsonschema.For[tools.AssignmentDetailsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.AssignmentDetailsName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.AssignmentDetailsName,
		Description: "Get one assignment in full: the HTML description, due and lock " +
			"windows, points, submission types, allowed file extensions, grading type, " +
			"and a link to the assignment page.",
		InputSchema: assignmentDetailsSchema,
	}, s.AssignmentDetails)

	// get_my_submission
	mySubmissionSchema, err := jsonschema.For[tools.MySubmissionInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.MySubmissionName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.MySubmissionName,
		Description: "Get the user's own submission for one assignment: workflow state, " +
			"submission and grading timestamps, score, grade, attempt count, " +
			"late/missing/excused flags, and any uploaded attachments. Work not yet " +
			"handed in comes back with workflow_state \"unsubmitted\" rather than an error.",
		InputSchema: mySubmissionSchema,
	}, s.MySubmission)

	// list_upcoming_assignments
	upcomingSchema, err := jsonschema.For[tools.UpcomingAssignmentsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.UpcomingAssignmentsName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.UpcomingAssignmentsName,
		Description: "List assignments due within the next N days (default 7) across all " +
			"of the user's active courses, sorted by due date and annotated with the " +
			"course they belong to. By default work already handed in is dropped; set " +
			"only_unsubmitted to false to keep it. This is the tool for \"what is due " +
			"this week\".",
		InputSchema: upcomingSchema,
	}, s.UpcomingAssignments)

	return nil
}

// ListAssignments handles the list_course_assignments MCP tool call.
func (s *Server) ListAssignments(ctx context.Context, req *mcp.CallToolRequest, input tools.ListAssignmentsInput) (*mcp.CallToolResult, any, error) {
	result, err := s.assignments.List(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.ListAssignmentsName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

// AssignmentDetails handles the get_assignment_details MCP tool call.
func (s *Server) AssignmentDetails(ctx context.Context, req *mcp.CallToolRequest, input tools.AssignmentDetailsInput) (*mcp.CallToolResult, any, error) {
	result, err := s.assignments.Details(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.AssignmentDetailsName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

// MySubmission handles the get_my_submission MCP tool call.
func (s *Server) MySubmission(ctx context.Context, req *mcp.CallToolRequest, input tools.MySubmissionInput) (*mcp.CallToolResult, any, error) {
	result, err := s.assignments.MySubmission(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.MySubmissionName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

// UpcomingAssignments handles the list_upcoming_assignments MCP tool call.
func (s *Server) UpcomingAssignments(ctx context.Context, req *mcp.CallToolRequest, input tools.UpcomingAssignmentsInput) (*mcp.CallToolResult, any, error) {
	result, err := s.assignments.Upcoming(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.UpcomingAssignmentsName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}
