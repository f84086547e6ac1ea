package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/campusops/canvas-mcp/internal/canvas"
	"github.com/campusops/canvas-mcp/internal/log"
)

// Tool name constants for assignment operations.
const (
	// ListAssignmentsName is the MCP tool name for listing a course's assignments.
	ListAssignmentsName = "list_course_assignments"
	// AssignmentDetailsName is the MCP tool name for fetching one assignment.
	AssignmentDetailsName = "get_assignment_details"
	// MySubmissionName is the MCP tool name for fetching the user's submission.
	MySubmissionName = "get_my_submission"
	// UpcomingAssignmentsName is the MCP tool name for the cross-course
	// upcoming-work aggregation.
	UpcomingAssignmentsName = "list_upcoming_assignments"
)

// defaultUpcomingDays is the look-ahead window when the caller does not
// name one.
const defaultUpcomingDays = 7

// assignmentBuckets are the server-side filters Canvas accepts.
var assignmentBuckets = map[string]bool{
	"past":        true,
	"overdue":     true,
	"undated":     true,
	"ungraded":    true,
	"unsubmitted": true,
	"upcoming":    true,
	"future":      true,
}

// ListAssignmentsInput defines input for the list_course_assignments tool.
type ListAssignmentsInput struct {
	CourseID   int64  `json:"course_id" jsonschema_description:"The Canvas course ID"`
	Bucket     string `json:"bucket,omitempty" jsonschema_description:"Server-side filter: past, overdue, undated, ungraded, unsubmitted, upcoming, or future"`
	SearchTerm string `json:"search_term,omitempty" jsonschema_description:"Partial assignment title to search for"`
}

// AssignmentDetailsInput defines input for the get_assignment_details tool.
type AssignmentDetailsInput struct {
	CourseID     int64 `json:"course_id" jsonschema_description:"The Canvas course ID"`
	AssignmentID int64 `json:"assignment_id" jsonschema_description:"The Canvas assignment ID"`
}

// MySubmissionInput defines input for the get_my_submission tool.
type MySubmissionInput struct {
	CourseID     int64 `json:"course_id" jsonschema_description:"The Canvas course ID"`
	AssignmentID int64 `json:"assignment_id" jsonschema_description:"The Canvas assignment ID"`
}

// UpcomingAssignmentsInput defines input for the list_upcoming_assignments tool.
type UpcomingAssignmentsInput struct {
	Days            *int  `json:"days,omitempty" jsonschema_description:"How many days ahead to look. Defaults to 7, minimum 1."`
	OnlyUnsubmitted *bool `json:"only_unsubmitted,omitempty" jsonschema_description:"Keep only assignments without a finished submission. Defaults to true."`
}

// AssignmentRecord is one assignment in the list_course_assignments
// payload. The full description is deliberately left to
// get_assignment_details to keep listings small.
type AssignmentRecord struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	DueAt             *time.Time `json:"due_at"`
	PointsPossible    *float64   `json:"points_possible"`
	SubmissionTypes   []string   `json:"submission_types"`
	AllowedExtensions []string   `json:"allowed_extensions"`
	LockAt            *time.Time `json:"lock_at"`
	UnlockAt          *time.Time `json:"unlock_at"`
	HasOverrides      bool       `json:"has_overrides"`
	Published         bool       `json:"published"`
}

// AssignmentDetailRecord is the get_assignment_details payload, including
// the HTML description and grading metadata.
type AssignmentDetailRecord struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	DueAt             *time.Time `json:"due_at"`
	PointsPossible    *float64   `json:"points_possible"`
	SubmissionTypes   []string   `json:"submission_types"`
	AllowedExtensions []string   `json:"allowed_extensions"`
	GradingType       string     `json:"grading_type"`
	LockAt            *time.Time `json:"lock_at"`
	UnlockAt          *time.Time `json:"unlock_at"`
	Muted             bool       `json:"muted"`
	HasOverrides      bool       `json:"has_overrides"`
	Published         bool       `json:"published"`
	HTMLURL           string     `json:"html_url"`
}

// SubmissionRecord is the get_my_submission payload.
type SubmissionRecord struct {
	ID             int64               `json:"id"`
	UserID         int64               `json:"user_id"`
	WorkflowState  string              `json:"workflow_state"`
	SubmittedAt    *time.Time          `json:"submitted_at"`
	GradedAt       *time.Time          `json:"graded_at"`
	PostedAt       *time.Time          `json:"posted_at"`
	Score          *float64            `json:"score"`
	Grade          *string             `json:"grade"`
	Attempt        *int                `json:"attempt"`
	Late           bool                `json:"late"`
	Missing        bool                `json:"missing"`
	Excused        bool                `json:"excused"`
	SubmissionType *string             `json:"submission_type"`
	PreviewURL     string              `json:"preview_url"`
	Attachments    []canvas.Attachment `json:"attachments"`
}

// UpcomingAssignmentRecord is one entry in the list_upcoming_assignments
// payload, annotated with its course for cross-course readability.
type UpcomingAssignmentRecord struct {
	CourseID        int64      `json:"course_id"`
	CourseName      string     `json:"course_name"`
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	DueAt           *time.Time `json:"due_at"`
	PointsPossible  *float64   `json:"points_possible"`
	SubmissionTypes []string   `json:"submission_types"`
	HTMLURL         string     `json:"html_url"`
}

// Assignments holds handlers for assignment and submission tools.
type Assignments struct {
	provider *canvas.Provider
	logger   log.Logger
}

// NewAssignments creates an Assignments toolset.
func NewAssignments(provider *canvas.Provider, logger log.Logger) (*Assignments, error) {
	if provider == nil {
		return nil, fmt.Errorf("canvas provider is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Assignments{provider: provider, logger: logger}, nil
}

// List lists the assignments of one course, optionally narrowed by a
// Canvas bucket filter or a title search.
func (a *Assignments) List(ctx context.Context, input ListAssignmentsInput) (Result, error) {
	a.logger.Debug("List called", "course_id", input.CourseID, "bucket", input.Bucket, "search_term", input.SearchTerm)

	if input.CourseID <= 0 {
		return validationError("course_id must be a positive integer", map[string]any{
			"course_id": input.CourseID,
		}), nil
	}
	if input.Bucket != "" && !assignmentBuckets[input.Bucket] {
		return validationError(
			fmt.Sprintf("bucket must be one of: %s", strings.Join(bucketNames(), ", ")),
			map[string]any{"bucket": input.Bucket},
		), nil
	}

	client, err := a.provider.Client()
	if err != nil {
		return canvasError(err), nil
	}

	assignments, err := client.Assignments(ctx, input.CourseID, canvas.AssignmentOptions{
		Bucket:     input.Bucket,
		SearchTerm: input.SearchTerm,
	})
	if err != nil {
		a.logger.Warn("List fetch failed", "course_id", input.CourseID, "error", err)
		return fetchFailure(ctx, "listing assignments", err)
	}

	records := make([]AssignmentRecord, 0, len(assignments))
	for _, assignment := range assignments {
		records = append(records, AssignmentRecord{
			ID:                assignment.ID,
			Name:              assignment.Name,
			DueAt:             assignment.DueAt,
			PointsPossible:    assignment.PointsPossible,
			SubmissionTypes:   assignment.SubmissionTypes,
			AllowedExtensions: assignment.AllowedExtensions,
			LockAt:            assignment.LockAt,
			UnlockAt:          assignment.UnlockAt,
			HasOverrides:      assignment.HasOverrides,
			Published:         assignment.Published,
		})
	}

	a.logger.Debug("List succeeded", "course_id", input.CourseID, "count", len(records))
	return Result{Status: StatusSuccess, Data: records}, nil
}

// Details fetches one assignment with its full description.
func (a *Assignments) Details(ctx context.Context, input AssignmentDetailsInput) (Result, error) {
	a.logger.Debug("Details called", "course_id", input.CourseID, "assignment_id", input.AssignmentID)

	if result, ok := validateIDs(input.CourseID, input.AssignmentID); !ok {
		return result, nil
	}

	client, err := a.provider.Client()
	if err != nil {
		return canvasError(err), nil
	}

	assignment, err := client.Assignment(ctx, input.CourseID, input.AssignmentID)
	if err != nil {
		a.logger.Warn("Details fetch failed", "course_id", input.CourseID, "assignment_id", input.AssignmentID, "error", err)
		return fetchFailure(ctx, "fetching assignment", err)
	}

	a.logger.Debug("Details succeeded", "assignment_id", assignment.ID)
	return Result{
		Status: StatusSuccess,
		Data: AssignmentDetailRecord{
			ID:                assignment.ID,
			Name:              assignment.Name,
			Description:       assignment.Description,
			DueAt:             assignment.DueAt,
			PointsPossible:    assignment.PointsPossible,
			SubmissionTypes:   assignment.SubmissionTypes,
			AllowedExtensions: assignment.AllowedExtensions,
			GradingType:       assignment.GradingType,
			LockAt:            assignment.LockAt,
			UnlockAt:          assignment.UnlockAt,
			Muted:             assignment.Muted,
			HasOverrides:      assignment.HasOverrides,
			Published:         assignment.Published,
			HTMLURL:           assignment.HTMLURL,
		},
	}, nil
}

// MySubmission fetches the user's own submission state for one assignment.
func (a *Assignments) MySubmission(ctx context.Context, input MySubmissionInput) (Result, error) {
	a.logger.Debug("MySubmission called", "course_id", input.CourseID, "assignment_id", input.AssignmentID)

	if result, ok := validateIDs(input.CourseID, input.AssignmentID); !ok {
		return result, nil
	}

	client, err := a.provider.Client()
	if err != nil {
		return canvasError(err), nil
	}

	submission, err := client.MySubmission(ctx, input.CourseID, input.AssignmentID)
	if err != nil {
		a.logger.Warn("MySubmission fetch failed", "course_id", input.CourseID, "assignment_id", input.AssignmentID, "error", err)
		return fetchFailure(ctx, "fetching submission", err)
	}

	a.logger.Debug("MySubmission succeeded", "submission_id", submission.ID, "workflow_state", submission.WorkflowState)
	return Result{
		Status: StatusSuccess,
		Data: SubmissionRecord{
			ID:             submission.ID,
			UserID:         submission.UserID,
			WorkflowState:  submission.WorkflowState,
			SubmittedAt:    submission.SubmittedAt,
			GradedAt:       submission.GradedAt,
			PostedAt:       submission.PostedAt,
			Score:          submission.Score,
			Grade:          submission.Grade,
			Attempt:        submission.Attempt,
			Late:           submission.Late,
			Missing:        submission.Missing,
			Excused:        submission.Excused,
			SubmissionType: submission.SubmissionType,
			PreviewURL:     submission.PreviewURL,
			Attachments:    submission.Attachments,
		},
	}, nil
}

// Upcoming aggregates assignments due within the look-ahead window across
// every active course, sorted by due date. A course whose assignments
// cannot be fetched is skipped rather than failing the whole report; a
// failed submission check keeps the assignment in the list.
func (a *Assignments) Upcoming(ctx context.Context, input UpcomingAssignmentsInput) (Result, error) {
	days := defaultUpcomingDays
	if input.Days != nil {
		days = *input.Days
	}
	if days < 1 {
		days = 1
	}

	onlyUnsubmitted := true
	if input.OnlyUnsubmitted != nil {
		onlyUnsubmitted = *input.OnlyUnsubmitted
	}

	a.logger.Debug("Upcoming called", "days", days, "only_unsubmitted", onlyUnsubmitted)

	client, err := a.provider.Client()
	if err != nil {
		return canvasError(err), nil
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, days)

	courses, err := client.ActiveCourses(ctx)
	if err != nil {
		a.logger.Warn("Upcoming course listing failed", "error", err)
		return fetchFailure(ctx, "listing active courses", err)
	}

	records := make([]UpcomingAssignmentRecord, 0)
	for _, course := range courses {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("upcoming assignments canceled: %w", ctxErr)
		}

		assignments, err := client.Assignments(ctx, course.ID, canvas.AssignmentOptions{})
		if err != nil {
			a.logger.Warn("Upcoming skipping course", "course_id", course.ID, "error", err)
			continue
		}

		for _, assignment := range assignments {
			due := assignment.DueAt
			if due == nil || due.Before(now) || due.After(cutoff) {
				continue
			}
			if onlyUnsubmitted && a.alreadySubmitted(ctx, client, course.ID, assignment.ID) {
				continue
			}
			records = append(records, UpcomingAssignmentRecord{
				CourseID:        course.ID,
				CourseName:      course.Name,
				ID:              assignment.ID,
				Name:            assignment.Name,
				DueAt:           assignment.DueAt,
				PointsPossible:  assignment.PointsPossible,
				SubmissionTypes: assignment.SubmissionTypes,
				HTMLURL:         assignment.HTMLURL,
			})
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DueAt.Before(*records[j].DueAt)
	})

	a.logger.Debug("Upcoming succeeded", "count", len(records))
	return Result{Status: StatusSuccess, Data: records}, nil
}

// alreadySubmitted reports whether the user has a finished submission for
// the assignment. Finished means the workflow state is submitted or graded
// and a submission timestamp exists; a graded placeholder with no actual
// hand-in still counts as outstanding. Lookup failures report false so the
// assignment stays visible.
func (a *Assignments) alreadySubmitted(ctx context.Context, client *canvas.Client, courseID, assignmentID int64) bool {
	submission, err := client.MySubmission(ctx, courseID, assignmentID)
	if err != nil {
		a.logger.Warn("Upcoming submission check failed", "course_id", courseID, "assignment_id", assignmentID, "error", err)
		return false
	}

	state := submission.WorkflowState
	return (state == "submitted" || state == "graded") && submission.SubmittedAt != nil
}

// validateIDs rejects non-positive course and assignment IDs.
func validateIDs(courseID, assignmentID int64) (Result, bool) {
	if courseID <= 0 {
		return validationError("course_id must be a positive integer", map[string]any{
			"course_id": courseID,
		}), false
	}
	if assignmentID <= 0 {
		return validationError("assignment_id must be a positive integer", map[string]any{
			"assignment_id": assignmentID,
		}), false
	}
	return Result{}, true
}

// bucketNames returns the accepted bucket filters in stable order.
func bucketNames() []string {
	names := make([]string, 0, len(assignmentBuckets))
	for name := range assignmentBuckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
