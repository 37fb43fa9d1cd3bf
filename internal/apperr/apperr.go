// Package apperr defines the error taxonomy shared by the store gateways,
// the normalizer and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup or query yields no result. It is an
	// expected outcome and is not logged as an error.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized covers missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when a unique key (user email) already exists.
	ErrConflict = errors.New("conflict")
	// ErrInvalidFormat is returned for disallowed upload types.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrNoData signals an empty job collection for analytics.
	ErrNoData = errors.New("no data available")
)

// FieldError describes one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation, not just the first.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field failure.
func (e *ValidationError) Add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

// Has reports whether field has at least one recorded failure.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no failures were recorded so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// DataProcessingError wraps an aggregation failure with a remediation hint.
type DataProcessingError struct {
	Err  error
	Hint string
}

func (e *DataProcessingError) Error() string {
	return fmt.Sprintf("data processing failed: %v", e.Err)
}

func (e *DataProcessingError) Unwrap() error { return e.Err }
