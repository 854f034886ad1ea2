// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Use errors.Is to classify a failure returned from this package.
var (
	// ErrConfig reports missing or unusable settings, such as an absent API
	// token. It is raised before any network call and never retried.
	ErrConfig = errors.New("configuration error")

	// ErrInference reports that the text-generation endpoint failed on every
	// attempt.
	ErrInference = errors.New("inference failed")

	// ErrParse reports a response with no locatable or decodable metadata JSON.
	ErrParse = errors.New("parse error")

	// ErrValidation reports a decoded response that breaks the record's shape
	// or length rules.
	ErrValidation = errors.New("validation error")
)

// ParseError describes why a response could not be turned into fields.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Msg, e.Err)
	}
	return "parse error: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// FieldError is a single problem with one record field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError collects every field problem found in a response.
type ValidationError struct {
	Items []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = item.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Add records a problem with field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Items = append(e.Items, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// HasAny reports whether any problem was recorded.
func (e *ValidationError) HasAny() bool {
	return len(e.Items) > 0
}
