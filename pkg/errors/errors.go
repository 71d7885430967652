// Package errors provides structured error types for stowage.
//
// Error codes let the CLI and the HTTP API report failures consistently:
//   - INVALID_*: input validation failures
//   - NOT_FOUND / FILE_NOT_FOUND: missing resources
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// The layout core (geom, scene, place, diag, annotate) never returns these to
// its callers. Malformed numeric input is coerced to defaults there, and the
// normalization helpers only hand back an *Error so the coercion can be logged.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported request file: %s", ext)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidRequest Code = "INVALID_REQUEST"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Fields collects per-field coercion notes and turns them into a single
// INVALID_INPUT error. The zero value is ready to use.
type Fields struct {
	what  string
	notes []string
}

// NewFields starts a collection for the named value (e.g. "position").
func NewFields(what string) *Fields {
	return &Fields{what: what}
}

// Add records that field was replaced by a default.
func (f *Fields) Add(field, format string, args ...any) {
	f.notes = append(f.notes, field+": "+fmt.Sprintf(format, args...))
}

// Len returns the number of recorded notes.
func (f *Fields) Len() int { return len(f.notes) }

// Err returns nil when nothing was recorded.
func (f *Fields) Err() error {
	if len(f.notes) == 0 {
		return nil
	}
	what := f.what
	if what == "" {
		what = "value"
	}
	return New(ErrCodeInvalidInput, "%s coerced: %v", what, f.notes)
}
