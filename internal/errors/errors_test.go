package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeNotFound, "act act-1 not found")

	if !stderrors.Is(err, ErrNotFound) {
		t.Fatal("expected errors.Is to match ErrNotFound")
	}
	if stderrors.Is(err, ErrValidation) {
		t.Fatal("did not expect errors.Is to match ErrValidation")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(CodeTransient, "list acts", context.DeadlineExceeded)

	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
	if got := err.Error(); got != "list acts: context deadline exceeded" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCodeOfSeesThroughWrapping(t *testing.T) {
	inner := New(CodeValidation, "title is required")
	outer := fmt.Errorf("create act: %w", inner)

	if got := CodeOf(outer); got != CodeValidation {
		t.Fatalf("expected VALIDATION, got %s", got)
	}
	if !IsValidation(outer) {
		t.Fatal("expected IsValidation to be true")
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected UNKNOWN for plain error, got %s", got)
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeNotFound, "chapter not found", map[string]string{"chapter_id": "chap-1"})
	if err.Metadata["chapter_id"] != "chap-1" {
		t.Fatalf("expected metadata to be kept, got %v", err.Metadata)
	}
}

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeTransient, http.StatusServiceUnavailable},
		{CodeConsistency, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if !CodeTransient.Retryable() {
		t.Fatal("expected TRANSIENT to be retryable")
	}
	if CodeConsistency.Retryable() || CodeNotFound.Retryable() {
		t.Fatal("expected only TRANSIENT to be retryable")
	}
}
