package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that did not come from the journal.
	CodeUnknown Code = "UNKNOWN"

	// CodeValidation marks malformed input: empty or oversized titles,
	// duplicate or non-dense positions in a reorder batch.
	CodeValidation Code = "VALIDATION"

	// CodeNotFound marks an id that does not exist in the expected scope.
	CodeNotFound Code = "NOT_FOUND"

	// CodeTransient marks an unavailable or timed-out persistence call.
	// The whole operation may be retried.
	CodeTransient Code = "TRANSIENT"

	// CodeConsistency marks a violated internal invariant (a bug, not user error).
	CodeConsistency Code = "CONSISTENCY"
)

// HTTPStatus maps the code to an HTTP status for transport adapters.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a caller may retry the operation unchanged.
func (c Code) Retryable() bool {
	return c == CodeTransient
}
