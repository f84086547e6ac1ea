package canvas

import "time"

// UserProfile is the authenticated user's profile from /users/self/profile.
// The profile endpoint exposes login and contact fields that the plain user
// object omits.
type UserProfile struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SortableName string `json:"sortable_name"`
	ShortName    string `json:"short_name"`
	LoginID      string `json:"login_id"`
	PrimaryEmail string `json:"primary_email"`
	TimeZone     string `json:"time_zone"`
	Locale       string `json:"locale"`
}

// Course is a Canvas course as returned by the favorites and course listings.
// Enrollments is only populated when the caller requested it via include[].
type Course struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	CourseCode       string             `json:"course_code"`
	WorkflowState    string             `json:"workflow_state"`
	StartAt          *time.Time         `json:"start_at"`
	EndAt            *time.Time         `json:"end_at"`
	EnrollmentTermID int64              `json:"enrollment_term_id"`
	Enrollments      []CourseEnrollment `json:"enrollments,omitempty"`
}

// CourseEnrollment is the slim enrollment object embedded in course listings.
// Canvas is inconsistent about which state field it fills in here, so both
// are kept.
type CourseEnrollment struct {
	Type            string `json:"type"`
	Role            string `json:"role"`
	EnrollmentState string `json:"enrollment_state"`
	WorkflowState   string `json:"workflow_state"`
}

// Assignment is a Canvas assignment. Nullable numeric and timestamp fields
// use pointers so "not set" survives the round trip instead of collapsing
// to zero values.
type Assignment struct {
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

// Submission is the authenticated user's submission for one assignment.
type Submission struct {
	ID             int64        `json:"id"`
	UserID         int64        `json:"user_id"`
	WorkflowState  string       `json:"workflow_state"`
	SubmittedAt    *time.Time   `json:"submitted_at"`
	GradedAt       *time.Time   `json:"graded_at"`
	PostedAt       *time.Time   `json:"posted_at"`
	Score          *float64     `json:"score"`
	Grade          *string      `json:"grade"`
	Attempt        *int         `json:"attempt"`
	Late           bool         `json:"late"`
	Missing        bool         `json:"missing"`
	Excused        bool         `json:"excused"`
	SubmissionType *string      `json:"submission_type"`
	PreviewURL     string       `json:"preview_url"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file attached to a submission. Canvas serializes the MIME
// type under the hyphenated key "content-type".
type Attachment struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	ContentType string `json:"content-type"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
}

// Enrollment is a full enrollment record from the course enrollments
// endpoint, including the grade summary when include[]=grades was requested.
type Enrollment struct {
	ID              int64         `json:"id"`
	CourseID        int64         `json:"course_id"`
	UserID          int64         `json:"user_id"`
	Type            string        `json:"type"`
	EnrollmentState string        `json:"enrollment_state"`
	Grades          *GradeSummary `json:"grades"`
}

// GradeSummary carries the current and final scores for one enrollment.
// Scores are nullable: a course with no graded work yet has none.
type GradeSummary struct {
	HTMLURL              string   `json:"html_url"`
	CurrentScore         *float64 `json:"current_score"`
	FinalScore           *float64 `json:"final_score"`
	CurrentGrade         *string  `json:"current_grade"`
	FinalGrade           *string  `json:"final_grade"`
	UnpostedCurrentScore *float64 `json:"unposted_current_score"`
	UnpostedFinalScore   *float64 `json:"unposted_final_score"`
}

// DiscussionTopic is a discussion topic; announcements are topics fetched
// with only_announcements=true. Message holds the raw HTML body.
type DiscussionTopic struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	WorkflowState string     `json:"workflow_state"`
	Published     bool       `json:"published"`
	PostedAt      *time.Time `json:"posted_at"`
	LastReplyAt   *time.Time `json:"last_reply_at"`
	HTMLURL       string     `json:"html_url"`
}
