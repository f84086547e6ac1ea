package tools

import (
	"context"
	"net/http"
	"testing"

	"github.com/campusops/canvas-mcp/internal/log"
	"github.com/campusops/canvas-mcp/internal/testutil"
)

const favoritesFixture = `[
	{"id": 101, "name": "Algorithms", "course_code": "CS-301", "workflow_state": "available",
	 "enrollment_term_id": 7, "start_at": "2026-01-12T00:00:00Z",
	 "enrollments": [{"type": "student", "enrollment_state": "active"}]},
	{"id": 102, "name": "Old Seminar", "course_code": "HIST-210", "workflow_state": "completed",
	 "enrollments": [{"type": "student", "enrollment_state": "active"}]},
	{"id": 103, "name": "Pending Lab", "course_code": "BIO-110", "workflow_state": "available",
	 "enrollments": [{"type": "student", "enrollment_state": "invited"}]},
	{"id": 104, "name": "No Enrollment Data", "course_code": "GEN-100", "workflow_state": "available"},
	{"id": 105, "name": "Legacy State", "course_code": "MATH-400", "workflow_state": "available",
	 "enrollments": [{"type": "student", "workflow_state": "active"}]}
]`

func newCoursesToolset(t *testing.T, srv *testutil.CanvasServer) *Courses {
	t.Helper()

	courses, err := NewCourses(newProvider(t, srv), log.NewNop())
	if err != nil {
		t.Fatalf("NewCourses() error = %v", err)
	}
	return courses
}

func courseIDs(t *testing.T, result Result) []int64 {
	t.Helper()

	records, ok := result.Data.([]CourseRecord)
	if !ok {
		t.Fatalf("Data type = %T, want []CourseRecord", result.Data)
	}
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func TestNewCourses_Validation(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	provider := newProvider(t, srv)

	if _, err := NewCourses(nil, log.NewNop()); err == nil {
		t.Error("NewCourses(nil provider) expected error")
	}
	if _, err := NewCourses(provider, nil); err == nil {
		t.Error("NewCourses(nil logger) expected error")
	}
}

func TestCourses_ListMyCourses(t *testing.T) {
	tests := []struct {
		name    string
		input   ListMyCoursesInput
		wantIDs []int64
	}{
		{
			name:    "defaults keep active and drop concluded",
			input:   ListMyCoursesInput{},
			wantIDs: []int64{101, 104, 105},
		},
		{
			name:    "include concluded",
			input:   ListMyCoursesInput{IncludeConcluded: true},
			wantIDs: []int64{101, 102, 104, 105},
		},
		{
			name:    "invited enrollment state",
			input:   ListMyCoursesInput{EnrollmentState: "invited"},
			wantIDs: []int64{103, 104},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewCanvasServer(t)
			srv.HandleJSON("GET /api/v1/users/self/favorites/courses", favoritesFixture)
			courses := newCoursesToolset(t, srv)

			result, err := courses.ListMyCourses(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ListMyCourses() error = %v", err)
			}
			requireSuccess(t, result)

			gotIDs := courseIDs(t, result)
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("got IDs %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Errorf("IDs[%d] = %d, want %d", i, gotIDs[i], tt.wantIDs[i])
				}
			}
		})
	}
}

func TestCourses_ListMyCourses_RecordFields(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	srv.HandleJSON("GET /api/v1/users/self/favorites/courses", favoritesFixture)
	courses := newCoursesToolset(t, srv)

	result, err := courses.ListMyCourses(context.Background(), ListMyCoursesInput{})
	if err != nil {
		t.Fatalf("ListMyCourses() error = %v", err)
	}
	requireSuccess(t, result)

	records := result.Data.([]CourseRecord)
	first := records[0]
	if first.Name != "Algorithms" {
		t.Errorf("Name = %q, want Algorithms", first.Name)
	}
	if first.CourseCode != "CS-301" {
		t.Errorf("CourseCode = %q, want CS-301", first.CourseCode)
	}
	if first.EnrollmentTermID != 7 {
		t.Errorf("EnrollmentTermID = %d, want 7", first.EnrollmentTermID)
	}
	if first.StartAt == nil {
		t.Error("StartAt = nil, want parsed timestamp")
	}
	if first.EndAt != nil {
		t.Errorf("EndAt = %v, want nil", first.EndAt)
	}
}

func TestCourses_ListMyCourses_FetchError(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	srv.HandleError("GET /api/v1/users/self/favorites/courses", http.StatusInternalServerError, "something broke")
	courses := newCoursesToolset(t, srv)

	result, err := courses.ListMyCourses(context.Background(), ListMyCoursesInput{})
	if err != nil {
		t.Fatalf("ListMyCourses() error = %v", err)
	}
	requireErrorCode(t, result, ErrCodeAPI)
}

func TestCourses_CourseGrade(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	srv.HandleJSON("GET /api/v1/courses/101/enrollments", `[
		{"id": 77, "course_id": 101, "user_id": 4407, "type": "StudentEnrollment",
		 "enrollment_state": "active",
		 "grades": {"html_url": "https://canvas.test/courses/101/grades/4407",
		            "current_score": 91.5, "final_score": 89.0,
		            "current_grade": "A-", "final_grade": "B+",
		            "unposted_current_score": 92.0, "unposted_final_score": 90.0}}
	]`)
	courses := newCoursesToolset(t, srv)

	result, err := courses.CourseGrade(context.Background(), CourseGradeInput{CourseID: 101})
	if err != nil {
		t.Fatalf("CourseGrade() error = %v", err)
	}
	requireSuccess(t, result)

	record, ok := result.Data.(GradeRecord)
	if !ok {
		t.Fatalf("Data type = %T, want GradeRecord", result.Data)
	}
	if record.EnrollmentID != 77 {
		t.Errorf("EnrollmentID = %d, want 77", record.EnrollmentID)
	}
	if record.CourseID != 101 {
		t.Errorf("CourseID = %d, want 101", record.CourseID)
	}
	if record.UserID != 4407 {
		t.Errorf("UserID = %d, want 4407", record.UserID)
	}
	if record.Grades == nil {
		t.Fatal("Grades = nil, want populated summary")
	}
	if record.Grades.CurrentScore == nil || *record.Grades.CurrentScore != 91.5 {
		t.Errorf("CurrentScore = %v, want 91.5", record.Grades.CurrentScore)
	}
	if record.Grades.CurrentGrade == nil || *record.Grades.CurrentGrade != "A-" {
		t.Errorf("CurrentGrade = %v, want A-", record.Grades.CurrentGrade)
	}
}

func TestCourses_CourseGrade_NoEnrollment(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	srv.HandleJSON("GET /api/v1/courses/101/enrollments", `[]`)
	courses := newCoursesToolset(t, srv)

	result, err := courses.CourseGrade(context.Background(), CourseGradeInput{CourseID: 101})
	if err != nil {
		t.Fatalf("CourseGrade() error = %v", err)
	}
	requireSuccess(t, result)

	if result.Message != noGradeMessage {
		t.Errorf("Message = %q, want %q", result.Message, noGradeMessage)
	}
	data, ok := result.Data.(map[string]string)
	if !ok {
		t.Fatalf("Data type = %T, want map[string]string", result.Data)
	}
	if data["message"] != noGradeMessage {
		t.Errorf("data message = %q, want %q", data["message"], noGradeMessage)
	}
}

func TestCourses_CourseGrade_Validation(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	courses := newCoursesToolset(t, srv)

	result, err := courses.CourseGrade(context.Background(), CourseGradeInput{CourseID: 0})
	if err != nil {
		t.Fatalf("CourseGrade() error = %v", err)
	}
	requireErrorCode(t, result, ErrCodeValidation)
}

func TestCourses_Announcements(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	srv.HandleJSON("GET /api/v1/courses/101/discussion_topics", `[
		{"id": 31, "title": "Midterm moved", "message": "<p>The midterm is now on <strong>Friday</strong>.</p>",
		 "workflow_state": "active", "published": true, "posted_at": "2026-03-02T09:00:00Z",
		 "html_url": "https://canvas.test/courses/101/discussion_topics/31"},
		{"id": 32, "title": "Draft note", "message": "<p>Not yet posted.</p>",
		 "workflow_state": "unpublished", "published": false}
	]`)
	courses := newCoursesToolset(t, srv)

	result, err := courses.Announcements(context.Background(), AnnouncementsInput{CourseID: 101})
	if err != nil {
		t.Fatalf("Announcements() error = %v", err)
	}
	requireSuccess(t, result)

	records, ok := result.Data.([]AnnouncementRecord)
	if !ok {
		t.Fatalf("Data type = %T, want []AnnouncementRecord", result.Data)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (unpublished dropped)", len(records))
	}
	if records[0].ID != 31 {
		t.Errorf("ID = %d, want 31", records[0].ID)
	}
	if records[0].MessageText != "The midterm is now on Friday." {
		t.Errorf("MessageText = %q, want flattened body", records[0].MessageText)
	}
	if records[0].Message == records[0].MessageText {
		t.Error("Message should keep the original HTML body")
	}
}

func TestCourses_Announcements_IncludeUnpublished(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	srv.HandleJSON("GET /api/v1/courses/101/discussion_topics", `[
		{"id": 31, "title": "Posted", "workflow_state": "active", "published": true},
		{"id": 32, "title": "Draft", "workflow_state": "unpublished", "published": false}
	]`)
	courses := newCoursesToolset(t, srv)

	onlyPublished := false
	result, err := courses.Announcements(context.Background(), AnnouncementsInput{
		CourseID:      101,
		OnlyPublished: &onlyPublished,
	})
	if err != nil {
		t.Fatalf("Announcements() error = %v", err)
	}
	requireSuccess(t, result)

	records := result.Data.([]AnnouncementRecord)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestCourses_Announcements_FetchError(t *testing.T) {
	srv := testutil.NewCanvasServer(t)
	srv.HandleError("GET /api/v1/courses/101/discussion_topics", http.StatusNotFound, "The specified resource does not exist.")
	courses := newCoursesToolset(t, srv)

	result, err := courses.Announcements(context.Background(), AnnouncementsInput{CourseID: 101})
	if err != nil {
		t.Fatalf("Announcements() error = %v", err)
	}
	requireErrorCode(t, result, ErrCodeNotFound)
}
