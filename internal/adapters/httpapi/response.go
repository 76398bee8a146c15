// Package httpapi exposes the journal facade over HTTP with gin.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/example/lorebook/internal/errors"
)

// Envelope wraps every response body.
type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is the error part of an Envelope.
type APIError struct {
	Code      apperrors.Code    `json:"code"`
	Message   string            `json:"message"`
	Retryable bool              `json:"retryable"`
	Details   map[string]string `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString(requestIDKey),
	})
}

func ok(c *gin.Context, data any)      { respond(c, http.StatusOK, data) }
func created(c *gin.Context, data any) { respond(c, http.StatusCreated, data) }

// fail writes err as an error envelope. The status follows the error code.
// Only the coded message is exposed, never the wrapped cause.
func fail(c *gin.Context, err error) {
	failWith(c, err, nil)
}

// failWith is fail with a data payload alongside the error.
func failWith(c *gin.Context, err error, data any) {
	apiErr := &APIError{Code: apperrors.CodeOf(err), Message: "internal error"}
	var coded *apperrors.Error
	if errors.As(err, &coded) {
		apiErr.Message = coded.Message
		apiErr.Details = coded.Metadata
	}
	apiErr.Retryable = apiErr.Code.Retryable()

	c.AbortWithStatusJSON(apiErr.Code.HTTPStatus(), Envelope{
		Success:   false,
		Data:      data,
		Error:     apiErr,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString(requestIDKey),
	})
}

// badRequest reports a body that could not be decoded.
func badRequest(c *gin.Context, err error) {
	fail(c, apperrors.New(apperrors.CodeValidation, "invalid request body: "+err.Error()))
}

func notFound(what string) error {
	return apperrors.New(apperrors.CodeNotFound, what+" not found")
}
