// Package errors provides a lightweight structured error type (StageError)
// for category-based classification in the CLI and watch loop.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of an assetstage error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Staging and filesystem errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryHook       ErrorCategory = "hook"

	// Runtime and infrastructure errors
	CategoryWatch    ErrorCategory = "watch"
	CategoryStore    ErrorCategory = "store"
	CategoryNotify   ErrorCategory = "notify"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// StageError is a structured error with category, severity, and context
type StageError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for StageError
type ContextFields map[string]any

// Error implements the error interface
func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *StageError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *StageError) WithContext(key string, value any) *StageError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new StageError
func New(category ErrorCategory, severity ErrorSeverity, message string) *StageError {
	return &StageError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new StageError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *StageError {
	return &StageError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := err.(*StageError); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a StageError
func GetCategory(err error) ErrorCategory {
	if se, ok := err.(*StageError); ok {
		return se.Category
	}
	return CategoryInternal
}

// ConfigError creates a new configuration error
func ConfigError(message string) *StageError {
	return New(CategoryConfig, SeverityFatal, message)
}

// ValidationError creates a new validation error
func ValidationError(message string) *StageError {
	return New(CategoryValidation, SeverityWarning, message)
}

// FileSystemError wraps a filesystem failure from the staging copy
func FileSystemError(err error, message string) *StageError {
	return Wrap(err, CategoryFileSystem, SeverityError, message)
}
