package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/lorebook/internal/ports/secondary"
)

// bulkUpdatePositions rewrites positions for rows of one scope in two
// phases. Every target row is first parked at a unique negative position,
// then moved to its final position, so UNIQUE(scope, position) never trips
// on an intermediate permutation. Runs in the ctx transaction, or in its own
// when there is none.
func bulkUpdatePositions(ctx context.Context, db *sql.DB, table, scopeColumn, scopeID string, updates []secondary.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE %s SET position = ? WHERE id = ? AND %s = ?", table, scopeColumn)
	return NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
		q := conn(ctx, db)
		for i, u := range updates {
			res, err := q.ExecContext(ctx, query, -(i + 1), u.ID, scopeID)
			if err != nil {
				return mapError("park "+table+" position", err)
			}
			if err := requireOne(fmt.Sprintf("park %s %s in %s", table, u.ID, scopeID), res); err != nil {
				return err
			}
		}
		for _, u := range updates {
			if _, err := q.ExecContext(ctx, query, u.Order, u.ID, scopeID); err != nil {
				return mapError("settle "+table+" position", err)
			}
		}
		return nil
	})
}
