// Package errors provides the structured error type (SpecError) used to classify
// failures for logging and CLI exit codes.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory classifies a SpecError.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Source document errors
	CategorySource ErrorCategory = "source"

	// Pipeline and output errors
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Watch loop and unexpected failures
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"
)

// SpecError is a structured error with category, severity and context.
type SpecError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for SpecError
type ContextFields map[string]any

func (e *SpecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *SpecError) WithContext(key string, value any) *SpecError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a SpecError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *SpecError {
	return &SpecError{Category: category, Severity: severity, Message: message}
}

// Wrap creates a SpecError around err.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *SpecError {
	return &SpecError{Category: category, Severity: severity, Message: message, Cause: err}
}

// As returns the first SpecError in err's chain.
func As(err error) (*SpecError, bool) {
	var se *SpecError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCategory checks if an error chain carries a SpecError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := As(err); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal when the
// chain has no SpecError.
func GetCategory(err error) ErrorCategory {
	if se, ok := As(err); ok {
		return se.Category
	}
	return CategoryInternal
}
