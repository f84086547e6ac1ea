package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/log"
)

// Tool name constants for course operations.
const (
	// ListMyCoursesName is the MCP tool name for listing the user's courses.
	ListMyCoursesName = "list_my_courses"
	// CourseGradeName is the MCP tool name for fetching the user's grade in a course.
	CourseGradeName = "get_my_course_grade"
	// AnnouncementsName is the MCP tool name for listing course announcements.
	AnnouncementsName = "list_course_announcements"
)

// defaultEnrollmentState filters course listings when the caller does not
// name a state.
const defaultEnrollmentState = "active"

// noGradeMessage is returned when the user has no student enrollment with
// grades in the requested course.
const noGradeMessage = "No enrollment with grades found for this course."

// ListMyCoursesInput defines input for the list_my_courses tool.
type ListMyCoursesInput struct {
	EnrollmentState  string `json:"enrollment_state,omitempty" jsonschema_description:"Enrollment state to keep, e.g. 'active' or 'invited'. Defaults to 'active'."`
	IncludeConcluded bool   `json:"include_concluded,omitempty" jsonschema_description:"Also include courses whose workflow state is 'completed'. Defaults to false."`
}

// CourseGradeInput defines input for the get_my_course_grade tool.
type CourseGradeInput struct {
	CourseID int64 `json:"course_id" jsonschema_description:"The Canvas course ID"`
}

// AnnouncementsInput defines input for the list_course_announcements tool.
type AnnouncementsInput struct {
	CourseID      int64 `json:"course_id" jsonschema_description:"The Canvas course ID"`
	OnlyPublished *bool `json:"only_published,omitempty" jsonschema_description:"Keep only announcements in the 'active' workflow state. Defaults to true."`
}

// CourseRecord is one course in the list_my_courses payload.
type CourseRecord struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	CourseCode       string     `json:"course_code"`
	WorkflowState    string     `json:"workflow_state"`
	StartAt          *time.Time `json:"start_at"`
	EndAt            *time.Time `json:"end_at"`
	EnrollmentTermID int64      `json:"enrollment_term_id"`
}

// GradeRecord is the get_my_course_grade payload.
type GradeRecord struct {
	EnrollmentID int64                `json:"enrollment_id"`
	CourseID     int64                `json:"course_id"`
	UserID       int64                `json:"user_id"`
	Grades       *canvas.GradeSummary `json:"grades"`
}

// AnnouncementRecord is one announcement in the list_course_announcements
// payload. Message carries the original HTML body; MessageText is the
// same body flattened to plain text for direct consumption.
type AnnouncementRecord struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	MessageText string     `json:"message_text,omitempty"`
	Published   bool       `json:"published"`
	PostedAt    *time.Time `json:"posted_at"`
	LastReplyAt *time.Time `json:"last_reply_at"`
	HTMLURL     string     `json:"html_url"`
}

// Courses holds handlers for course listing, grade, and announcement tools.
type Courses struct {
	provider *canvas.Provider
	logger   log.Logger
}

// NewCourses creates a Courses toolset.
func NewCourses(provider *canvas.Provider, logger log.Logger) (*Courses, error) {
	if provider == nil {
		return nil, fmt.Errorf("canvas provider is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Courses{provider: provider, logger: logger}, nil
}

// ListMyCourses lists the user's favorite (dashboard) courses, filtered by
// enrollment state. Concluded courses are dropped unless asked for.
func (c *Courses) ListMyCourses(ctx context.Context, input ListMyCoursesInput) (Result, error) {
	state := input.EnrollmentState
	if state == "" {
		state = defaultEnrollmentState
	}

	c.logger.Debug("ListMyCourses called", "enrollment_state", state, "include_concluded", input.IncludeConcluded)

	client, err := c.provider.Client()
	if err != nil {
		return canvasError(err), nil
	}

	courses, err := client.FavoriteCourses(ctx)
	if err != nil {
		c.logger.Warn("ListMyCourses fetch failed", "error", err)
		return fetchFailure(ctx, "listing courses", err)
	}

	records := make([]CourseRecord, 0, len(courses))
	for _, course := range courses {
		if !matchesEnrollmentState(course, state) {
			continue
		}
		if !input.IncludeConcluded && course.WorkflowState == "completed" {
			continue
		}
		records = append(records, CourseRecord{
			ID:               course.ID,
			Name:             course.Name,
			CourseCode:       course.CourseCode,
			WorkflowState:    course.WorkflowState,
			StartAt:          course.StartAt,
			EndAt:            course.EndAt,
			EnrollmentTermID: course.EnrollmentTermID,
		})
	}

	c.logger.Debug("ListMyCourses succeeded", "count", len(records))
	return Result{Status: StatusSuccess, Data: records}, nil
}

// matchesEnrollmentState reports whether any of the user's enrollments in
// course is in state. Each enrollment carries its state in either
// enrollment_state or workflow_state depending on the endpoint, so the
// first non-empty one wins. Courses without embedded enrollment data pass
// the filter.
func matchesEnrollmentState(course canvas.Course, state string) bool {
	if len(course.Enrollments) == 0 {
		return true
	}
	for _, enrollment := range course.Enrollments {
		s := enrollment.EnrollmentState
		if s == "" {
			s = enrollment.WorkflowState
		}
		if s == state {
			return true
		}
	}
	return false
}

// CourseGrade returns the user's grade summary for one course, taken from
// their first student enrollment. Completed enrollments count, so grades
// stay visible after a term ends.
func (c *Courses) CourseGrade(ctx context.Context, input CourseGradeInput) (Result, error) {
	c.logger.Debug("CourseGrade called", "course_id", input.CourseID)

	if input.CourseID <= 0 {
		return validationError("course_id must be a positive integer", map[string]any{
			"course_id": input.CourseID,
		}), nil
	}

	client, err := c.provider.Client()
	if err != nil {
		return canvasError(err), nil
	}

	enrollments, err := client.StudentEnrollments(ctx, input.CourseID)
	if err != nil {
		c.logger.Warn("CourseGrade fetch failed", "course_id", input.CourseID, "error", err)
		return fetchFailure(ctx, "fetching enrollments", err)
	}

	if len(enrollments) == 0 {
		c.logger.Debug("CourseGrade no enrollment", "course_id", input.CourseID)
		return Result{
			Status:  StatusSuccess,
			Message: noGradeMessage,
			Data:    map[string]string{"message": noGradeMessage},
		}, nil
	}

	enrollment := enrollments[0]
	c.logger.Debug("CourseGrade succeeded", "course_id", input.CourseID, "enrollment_id", enrollment.ID)
	return Result{
		Status: StatusSuccess,
		Data: GradeRecord{
			EnrollmentID: enrollment.ID,
			CourseID:     enrollment.CourseID,
			UserID:       enrollment.UserID,
			Grades:       enrollment.Grades,
		},
	}, nil
}

// Announcements lists the announcements of one course, newest first.
// Unpublished announcements are dropped unless asked for.
func (c *Courses) Announcements(ctx context.Context, input AnnouncementsInput) (Result, error) {
	c.logger.Debug("Announcements called", "course_id", input.CourseID)

	if input.CourseID <= 0 {
		return validationError("course_id must be a positive integer", map[string]any{
			"course_id": input.CourseID,
		}), nil
	}

	onlyPublished := true
	if input.OnlyPublished != nil {
		onlyPublished = *input.OnlyPublished
	}

	client, err := c.provider.Client()
	if err != nil {
		return canvasError(err), nil
	}

	topics, err := client.Announcements(ctx, input.CourseID)
	if err != nil {
		c.logger.Warn("Announcements fetch failed", "course_id", input.CourseID, "error", err)
		return fetchFailure(ctx, "fetching announcements", err)
	}

	records := make([]AnnouncementRecord, 0, len(topics))
	for _, topic := range topics {
		if onlyPublished && topic.WorkflowState != "active" {
			continue
		}
		records = append(records, AnnouncementRecord{
			ID:          topic.ID,
			Title:       topic.Title,
			Message:     topic.Message,
			MessageText: canvas.Text(topic.Message),
			Published:   topic.Published,
			PostedAt:    topic.PostedAt,
			LastReplyAt: topic.LastReplyAt,
			HTMLURL:     topic.HTMLURL,
		})
	}

	c.logger.Debug("Announcements succeeded", "course_id", input.CourseID, "count", len(records))
	return Result{Status: StatusSuccess, Data: records}, nil
}
