// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/lorebook/internal/ports/secondary"
)

const actColumns = "id, campaign_id, title, position, created_at, updated_at"

// ActRepository implements secondary.ActRepository with SQLite.
type ActRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewActRepository creates a new SQLite act repository.
// logWriter is optional; when nil no audit entries are written.
func NewActRepository(db *sql.DB, logWriter secondary.LogWriter) *ActRepository {
	return &ActRepository{db: db, logWriter: logWriter}
}

// FindByID retrieves an act by its ID.
func (r *ActRepository) FindByID(ctx context.Context, id string) (*secondary.ActRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+actColumns+" FROM acts WHERE id = ?", id)
	record, err := scanAct(row)
	if err != nil {
		return nil, mapError("find act "+id, err)
	}
	return record, nil
}

// FindAllByCampaign retrieves a campaign's acts ordered by position.
func (r *ActRepository) FindAllByCampaign(ctx context.Context, campaignID string) ([]*secondary.ActRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+actColumns+" FROM acts WHERE campaign_id = ? ORDER BY position, id",
		campaignID,
	)
	if err != nil {
		return nil, mapError("list acts", err)
	}
	defer rows.Close()

	var acts []*secondary.ActRecord
	for rows.Next() {
		record, err := scanAct(rows)
		if err != nil {
			return nil, mapError("scan act", err)
		}
		acts = append(acts, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list acts", err)
	}
	return acts, nil
}

// Insert persists a new act.
func (r *ActRepository) Insert(ctx context.Context, act *secondary.ActRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO acts ("+actColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		act.ID, act.CampaignID, act.Title, act.Position, toUnix(act.CreatedAt), toUnix(act.UpdatedAt),
	)
	if err != nil {
		return mapError("insert act", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "act", act.CampaignID, act.ID)
	}
	return nil
}

// Update writes an act's title and updated_at.
func (r *ActRepository) Update(ctx context.Context, act *secondary.ActRecord) error {
	q := conn(ctx, r.db)

	var oldTitle string
	if err := q.QueryRowContext(ctx, "SELECT title FROM acts WHERE id = ?", act.ID).Scan(&oldTitle); err != nil {
		return mapError("find act "+act.ID, err)
	}

	res, err := q.ExecContext(ctx,
		"UPDATE acts SET title = ?, updated_at = ? WHERE id = ?",
		act.Title, toUnix(act.UpdatedAt), act.ID,
	)
	if err != nil {
		return mapError("update act", err)
	}
	if err := requireOne("update act "+act.ID, res); err != nil {
		return err
	}

	if r.logWriter != nil && oldTitle != act.Title {
		_ = r.logWriter.LogUpdate(ctx, "act", act.CampaignID, act.ID, "title", oldTitle, act.Title)
	}
	return nil
}

// DeleteByID removes an act. The chapters foreign key rejects the delete
// while any chapter still references the act.
func (r *ActRepository) DeleteByID(ctx context.Context, id string) error {
	q := conn(ctx, r.db)

	var campaignID string
	if err := q.QueryRowContext(ctx, "SELECT campaign_id FROM acts WHERE id = ?", id).Scan(&campaignID); err != nil {
		return mapError("find act "+id, err)
	}

	res, err := q.ExecContext(ctx, "DELETE FROM acts WHERE id = ?", id)
	if err != nil {
		return mapError("delete act", err)
	}
	if err := requireOne("delete act "+id, res); err != nil {
		return err
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "act", campaignID, id)
	}
	return nil
}

// BulkUpdateOrder rewrites positions for acts of one campaign.
func (r *ActRepository) BulkUpdateOrder(ctx context.Context, campaignID string, updates []secondary.OrderUpdate) error {
	if err := bulkUpdatePositions(ctx, r.db, "acts", "campaign_id", campaignID, updates); err != nil {
		return err
	}
	if r.logWriter != nil && len(updates) > 0 {
		_ = r.logWriter.LogReorder(ctx, "act", campaignID, len(updates))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAct(row rowScanner) (*secondary.ActRecord, error) {
	var (
		record             secondary.ActRecord
		createdAt, updated int64
	)
	if err := row.Scan(&record.ID, &record.CampaignID, &record.Title, &record.Position, &createdAt, &updated); err != nil {
		return nil, err
	}
	record.CreatedAt = fromUnix(createdAt)
	record.UpdatedAt = fromUnix(updated)
	return &record, nil
}

// Ensure ActRepository implements the interface
var _ secondary.ActRepository = (*ActRepository)(nil)
