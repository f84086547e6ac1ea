package mcp

import (
	"context"
	"fmt"

	"github.com/campusops/canvas-mcp/internal/tools"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerCourseTools registers the course listing, grade, and announcement
// tools. Tools: list_my_courses, get_my_course_grade,
// list_course_announcements
func (s *Server) registerCourseTools() error {
	// list_my_courses
	listCoursesSchema, err := jsonschema.For[tools.ListMyCoursesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.ListMyCoursesName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.ListMyCoursesName,
		Description: "List the courses on the user's Canvas dashboard (their favorites). " +
			"Filters by enrollment state (default \"active\") and hides concluded courses " +
			"unless include_concluded is true. Returns each course's ID, name, course code, " +
			"workflow state, term, and start/end dates. Course IDs from this list feed the " +
			"other course-scoped tools.",
		InputSchema: listCoursesSchema,
	}, s.ListMyCourses)

	// get_my_course_grade
	courseGradeSchema, err := jsonschema.For[tools.CourseGradeInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.CourseGradeName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.CourseGradeName,
		Description: "Get the user's grade summary for one course from their student " +
			"enrollment: current and final scores and letter grades, plus unposted " +
			"variants when Canvas exposes them. Courses without a graded enrollment " +
			"return an explanatory message instead of an error.",
		InputSchema: courseGradeSchema,
	}, s.CourseGrade)

	// list_course_announcements
	announcementsSchema, err := jsonschema.For[tools.AnnouncementsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for %s: %w", tools.AnnouncementsName, err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.AnnouncementsName,
		Description: "List the announcements of one course, newest first. Each entry " +
			"carries the original HTML body plus a plain-text rendering (message_text) " +
			"that is easier to quote. Unpublished announcements are dropped unless " +
			"only_published is set to false.",
		InputSchema: announcementsSchema,
	}, s.Announcements)

	return nil
}

// ListMyCourses handles the list_my_courses MCP tool call.
func (s *Server) ListMyCourses(ctx context.Context, req *mcp.CallToolRequest, input tools.ListMyCoursesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.courses.ListMyCourses(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.ListMyCoursesName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

// CourseGrade handles the get_my_course_grade MCP tool call.
func (s *Server) CourseGrade(ctx context.Context, req *mcp.CallToolRequest, input tools.CourseGradeInput) (*mcp.CallToolResult, any, error) {
	result, err := s.courses.CourseGrade(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.CourseGradeName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

// Announcements handles the list_course_announcements MCP tool call.
func (s *Server) Announcements(ctx context.Context, req *mcp.CallToolRequest, input tools.AnnouncementsInput) (*mcp.CallToolResult, any, error) {
	result, err := s.courses.Announcements(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("%s failed: %w", tools.AnnouncementsName, err)
	}
	return resultToMCP(result, s.logger), nil, nil
}
