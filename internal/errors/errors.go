package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing failures. Each code carries its own
// recovery policy, applied by the wizard and the CLI exit mapping.
const (
	ErrConfig       = "CONFIG"       // invalid settings or input
	ErrTool         = "TOOL"         // required external tool missing
	ErrGeneration   = "GENERATION"   // key generation produced nothing usable
	ErrFilesystem   = "FILESYSTEM"   // read/write/rename of a managed file failed
	ErrPrecondition = "PRECONDITION" // hard requirement unmet, run cannot continue
	ErrCancelled    = "CANCELLED"    // interrupted by the user
	ErrDeclined     = "DECLINED"     // user explicitly chose not to continue
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrFilesystem code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrFilesystem,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Cancelled returns the error used when the user interrupts the run.
func Cancelled() *Error {
	return &Error{
		Code:    ErrCancelled,
		Message: "Cancelled. Run again whenever you're ready.",
	}
}

// Declined returns the error used when the user answers no to a gate
// that the run cannot proceed without.
func Declined(message string) *Error {
	return &Error{
		Code:    ErrDeclined,
		Message: message,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	return Code(err) == code
}

// Code returns the code of the outermost structured Error in err's chain,
// or "" when there is none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
