package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/example/lorebook/internal/ports/secondary"
)

// mapError wraps a driver error with the matching port error so the
// application layer never inspects sqlite3 codes. The original error stays
// in the chain.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, secondary.ErrNotFound)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%s: %w: %w", op, secondary.ErrConflict, err)
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%s: %w: %w", op, secondary.ErrTransient, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireOne maps a zero-row write to ErrNotFound.
func requireOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, secondary.ErrNotFound)
	}
	return nil
}
