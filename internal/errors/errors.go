// Package errors provides the journal's error taxonomy.
//
// Every failure that leaves the journal facade is an *Error carrying one of
// four codes. Adapters (CLI, HTTP) switch on the code, never on message text.
package errors

import (
	stderrors "errors"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs and CLI output)
	Metadata map[string]string // Additional context, e.g. the offending id
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is comparisons. Only the code is compared.
var (
	ErrValidation  = New(CodeValidation, "validation failed")
	ErrNotFound    = New(CodeNotFound, "not found")
	ErrTransient   = New(CodeTransient, "transient failure")
	ErrConsistency = New(CodeConsistency, "consistency violation")
)

// CodeOf returns the code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsTransient reports whether err is safe to retry.
func IsTransient(err error) bool { return CodeOf(err) == CodeTransient }

// IsConsistency reports whether err signals a broken internal invariant.
func IsConsistency(err error) bool { return CodeOf(err) == CodeConsistency }
