package model

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorBody is the JSON error document returned by the diary backend.
// Older endpoints use "error", newer ones "message".
type ErrorBody struct {
	Err      string   `json:"error,omitempty"`
	Message  string   `json:"message,omitempty"`
	Required []string `json:"required,omitempty"`
}

// Text returns the most specific message carried by the body.
func (b ErrorBody) Text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Err
}

// HTTPError is returned for every non-2xx backend response.
// The status code is kept so callers can tell authorization failures apart.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *HTTPError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, status)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, status, e.Message)
}

// IsUnauthorized reports whether err wraps an HTTPError with status 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0 if there is none.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// FieldError describes a validation error on a specific form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when form input is rejected before any
// request is sent.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Field returns the message for the named field, or "" if it is valid.
func (e *ValidationError) Field(name string) string {
	for _, d := range e.Details {
		if d.Field == name {
			return d.Message
		}
	}
	return ""
}

// NewValidationError returns nil when details is empty.
func NewValidationError(details ...FieldError) error {
	if len(details) == 0 {
		return nil
	}
	return &ValidationError{Details: details}
}
