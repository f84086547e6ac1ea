// Package canvas is a minimal read-only client for the Canvas LMS REST API.
//
// The client covers the handful of endpoints the query tools need: the
// authenticated user's profile, course listings, assignments, submissions,
// enrollments with grades, and announcements. Collection requests follow
// Link-header pagination transparently, outbound calls are rate limited on
// the client side, and response bodies are capped so a misbehaving server
// cannot exhaust memory.
//
// Every request authenticates with a user-scoped bearer token and the
// client never issues writes, so the blast radius of a leaked deployment
// is bounded by what the token's owner can already see.
package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/campusops/canvas-mcp/internal/log"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	defaultPerPage   = 100
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 10
	defaultRateBurst = 30
	defaultMaxBody   = 5 * 1024 * 1024

	maxPerPage   = 100
	maxRedirects = 3

	userAgent  = "canvas-mcp"
	tracerName = "github.com/campusops/canvas-mcp/internal/canvas"
)

// Config holds the settings needed to construct a Client.
type Config struct {
	// BaseURL is the Canvas instance root, e.g. https://canvas.example.edu.
	BaseURL string

	// Token is a user-scoped Canvas API access token.
	Token string

	// PerPage is the page size requested from collection endpoints.
	// Canvas caps it at 100.
	PerPage int

	// Timeout bounds each HTTP request end to end.
	Timeout time.Duration

	// RateLimit is the sustained outbound request rate in requests per
	// second, enforced before Canvas has a chance to throttle us.
	RateLimit float64

	// RateBurst is the burst allowance on top of RateLimit.
	RateBurst int

	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes int64

	// Logger receives request-level debug logging. Required.
	Logger log.Logger
}

// Client talks to one Canvas instance on behalf of one user.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	perPage    int
	maxBody    int64
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     log.Logger
	tracer     trace.Tracer
}

// New creates a Client. BaseURL, Token, and Logger are required; every
// other field falls back to a sensible default when left zero.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base URL is required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("API token is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	maxBody := cfg.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		perPage: perPage,
		maxBody: maxBody,
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		logger:  cfg.Logger,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// CurrentUserProfile fetches the profile of the token's owner.
func (c *Client) CurrentUserProfile(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.getOne(ctx, "/api/v1/users/self/profile", nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return &profile, nil
}

// FavoriteCourses lists the courses the user has starred on their
// dashboard. Course objects arrive with the user's own enrollments
// embedded, which callers use for state filtering.
func (c *Client) FavoriteCourses(ctx context.Context) ([]Course, error) {
	courses, err := getPaginated[Course](ctx, c, "/api/v1/users/self/favorites/courses", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorite courses: %w", err)
	}
	return courses, nil
}

// ActiveCourses lists every course the user is actively enrolled in,
// favorite or not.
func (c *Client) ActiveCourses(ctx context.Context) ([]Course, error) {
	q := url.Values{}
	q.Set("enrollment_state", "active")

	courses, err := getPaginated[Course](ctx, c, "/api/v1/users/self/courses", q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active courses: %w", err)
	}
	return courses, nil
}

// AssignmentOptions narrows an assignment listing. Zero values mean
// no filtering.
type AssignmentOptions struct {
	// Bucket is a server-side filter such as "upcoming", "past",
	// "overdue", "undated", "ungraded", "unsubmitted", or "future".
	Bucket string

	// SearchTerm matches against assignment titles.
	SearchTerm string
}

// Assignments lists the assignments of a course, optionally narrowed
// by opts.
func (c *Client) Assignments(ctx context.Context, courseID int64, opts AssignmentOptions) ([]Assignment, error) {
	q := url.Values{}
	if opts.Bucket != "" {
		q.Set("bucket", opts.Bucket)
	}
	if opts.SearchTerm != "" {
		q.Set("search_term", opts.SearchTerm)
	}

	path := fmt.Sprintf("/api/v1/courses/%d/assignments", courseID)
	assignments, err := getPaginated[Assignment](ctx, c, path, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments for course %d: %w", courseID, err)
	}
	return assignments, nil
}

// Assignment fetches a single assignment with its full description.
func (c *Client) Assignment(ctx context.Context, courseID, assignmentID int64) (*Assignment, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/assignments/%d", courseID, assignmentID)

	var assignment Assignment
	if err := c.getOne(ctx, path, nil, &assignment); err != nil {
		return nil, fmt.Errorf("failed to fetch assignment %d in course %d: %w", assignmentID, courseID, err)
	}
	return &assignment, nil
}

// MySubmission fetches the user's own submission for an assignment.
// Canvas returns a placeholder submission with workflow state
// "unsubmitted" when nothing has been handed in yet.
func (c *Client) MySubmission(ctx context.Context, courseID, assignmentID int64) (*Submission, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/assignments/%d/submissions/self", courseID, assignmentID)

	var submission Submission
	if err := c.getOne(ctx, path, nil, &submission); err != nil {
		return nil, fmt.Errorf("failed to fetch submission for assignment %d in course %d: %w", assignmentID, courseID, err)
	}
	return &submission, nil
}

// StudentEnrollments lists the user's own student enrollments in a
// course, including grade summaries. Active and completed enrollments
// are both returned so grades remain queryable after term end.
func (c *Client) StudentEnrollments(ctx context.Context, courseID int64) ([]Enrollment, error) {
	q := url.Values{}
	q.Set("user_id", "self")
	q.Add("type[]", "StudentEnrollment")
	q.Add("state[]", "active")
	q.Add("state[]", "completed")
	q.Add("include[]", "grades")

	path := fmt.Sprintf("/api/v1/courses/%d/enrollments", courseID)
	enrollments, err := getPaginated[Enrollment](ctx, c, path, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments for course %d: %w", courseID, err)
	}
	return enrollments, nil
}

// Announcements lists the announcements of a course, newest first as
// Canvas orders them.
func (c *Client) Announcements(ctx context.Context, courseID int64) ([]DiscussionTopic, error) {
	q := url.Values{}
	q.Set("only_announcements", "true")

	path := fmt.Sprintf("/api/v1/courses/%d/discussion_topics", courseID)
	topics, err := getPaginated[DiscussionTopic](ctx, c, path, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch announcements for course %d: %w", courseID, err)
	}
	return topics, nil
}

// getPaginated fetches every page of a collection endpoint, following
// rel="next" links until the last page. The next-page URLs Canvas hands
// back are absolute and already carry the page size.
func getPaginated[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(c.perPage))

	next := c.baseURL + path + "?" + query.Encode()

	var all []T
	for next != "" {
		var page []T
		nextURL, err := c.get(ctx, next, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		next = nextURL
	}
	return all, nil
}

// getOne fetches a single-object endpoint.
func (c *Client) getOne(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	_, err := c.get(ctx, u, out)
	return err
}

// get performs one authenticated GET against rawURL, decodes the body
// into out when out is non-nil, and returns the rel="next" URL from the
// Link header if the response advertises one.
func (c *Client) get(ctx context.Context, rawURL string, out any) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to pass rate limiter: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, "canvas.get", trace.WithAttributes(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.url", rawURL),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := c.readBody(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	c.logger.Debug("canvas API request completed",
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		span.SetStatus(codes.Error, apiErr.Message)
		return "", apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nextPageURL(resp.Header.Get("Link")), nil
}

// readBody reads at most maxBody bytes and rejects anything larger.
// Reading one byte past the cap distinguishes "exactly at the limit"
// from "truncated".
func (c *Client) readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("response body exceeds %d byte limit", c.maxBody)
	}
	return body, nil
}
