package app

import (
	"context"
	"errors"

	apperrors "github.com/example/lorebook/internal/errors"
	"github.com/example/lorebook/internal/ports/secondary"
)

// translate maps a collaborator failure onto the journal error taxonomy.
// Errors that already carry a code pass through unchanged.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var coded *apperrors.Error
	if errors.As(err, &coded) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.CodeTransient, op+" timed out", err)
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(apperrors.CodeTransient, op+" canceled", err)
	case errors.Is(err, secondary.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, op, err)
	case errors.Is(err, secondary.ErrConflict):
		return apperrors.Wrap(apperrors.CodeTransient, op+" conflicted with a concurrent write", err)
	default:
		// ErrTransient and anything unrecognised from the store: the call
		// did not commit, so retrying the whole operation is safe.
		return apperrors.Wrap(apperrors.CodeTransient, op, err)
	}
}

// exists reports whether a lookup found something, treating ErrNotFound as
// a clean miss and anything else as a failure.
func exists(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, secondary.ErrNotFound) {
		return false, nil
	}
	return false, err
}
