package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the Canvas API.
// StatusCode carries the HTTP status so callers can distinguish
// "course not found" from "token rejected" without string matching.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("canvas API error (status %d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err to an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a Canvas 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a Canvas 401 (bad or expired token).
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// errorMessage extracts a human-readable message from a Canvas error body.
// Canvas usually answers {"errors": [{"message": "..."}]}; some endpoints
// use a bare {"message": "..."} or a non-JSON body.
func errorMessage(body []byte) string {
	var payload struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		var msgs []string
		for _, e := range payload.Errors {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	if snippet == "" {
		return "no error body"
	}
	return snippet
}
