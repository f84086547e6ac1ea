// Package tools implements the Canvas query tools exposed over MCP.
//
// # Overview
//
// Each tool answers one read-only question a student agent asks about
// Canvas: who am I, what courses am I taking, what is due, what did I
// score. Tools never mutate anything on the Canvas side.
//
// # Architecture
//
// Tools are grouped into toolsets by concern:
//   - Account: identity and server diagnostics (get_current_user, health)
//   - Courses: course listings, grades, announcements (list_my_courses,
//     get_my_course_grade, list_course_announcements)
//   - Assignments: assignment queries and the upcoming-work aggregation
//     (list_course_assignments, get_assignment_details, get_my_submission,
//     list_upcoming_assignments)
//
// Every toolset is constructed with a canvas.Provider and a logger. The
// provider defers client construction until credentials are needed, so a
// server without CANVAS_API_URL or CANVAS_API_TOKEN still starts and the
// health tool can report what is missing.
//
// # Error Handling
//
// Handlers return (Result, error). Business failures the model can react
// to, such as bad input, missing credentials, or a Canvas error status,
// are reported in Result.Error with a stable code. A non-nil Go error is
// reserved for infrastructure failures like context cancellation.
package tools
