// Package errors provides a lightweight structured error type (PreviewError)
// for category-based classification of failures in the preview pipeline.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a preview error for classification.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Pipeline errors
	CategoryGenerator  ErrorCategory = "generator"
	CategoryAnchor     ErrorCategory = "anchor"
	CategoryViewer     ErrorCategory = "viewer"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ContextFields carries structured context for PreviewError.
type ContextFields map[string]any

// PreviewError is a structured error with category, severity, and context.
type PreviewError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *PreviewError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *PreviewError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *PreviewError) WithContext(key string, value any) *PreviewError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// IsCategory reports whether err (or anything it wraps) is a PreviewError
// of the given category.
func IsCategory(err error, cat ErrorCategory) bool {
	var pe *PreviewError
	if errors.As(err, &pe) {
		return pe.Category == cat
	}
	return false
}
