package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/lorebook/internal/ports/secondary"
)

const masterNoteColumns = "id, campaign_id, content, created_at, updated_at"

// MasterNoteRepository implements secondary.MasterNoteRepository with SQLite.
type MasterNoteRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewMasterNoteRepository creates a new SQLite master note repository.
func NewMasterNoteRepository(db *sql.DB, logWriter secondary.LogWriter) *MasterNoteRepository {
	return &MasterNoteRepository{db: db, logWriter: logWriter}
}

// FindByID retrieves a note by its ID.
func (r *MasterNoteRepository) FindByID(ctx context.Context, id string) (*secondary.MasterNoteRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+masterNoteColumns+" FROM master_notes WHERE id = ?", id)
	record, err := scanMasterNote(row)
	if err != nil {
		return nil, mapError("find master note "+id, err)
	}
	return record, nil
}

// FindAllByCampaign retrieves a campaign's notes. The order is not part of
// the contract; callers sort by creation time.
func (r *MasterNoteRepository) FindAllByCampaign(ctx context.Context, campaignID string) ([]*secondary.MasterNoteRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+masterNoteColumns+" FROM master_notes WHERE campaign_id = ? ORDER BY created_at DESC, id",
		campaignID,
	)
	if err != nil {
		return nil, mapError("list master notes", err)
	}
	defer rows.Close()

	var notes []*secondary.MasterNoteRecord
	for rows.Next() {
		record, err := scanMasterNote(rows)
		if err != nil {
			return nil, mapError("scan master note", err)
		}
		notes = append(notes, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list master notes", err)
	}
	return notes, nil
}

// Insert persists a new note.
func (r *MasterNoteRepository) Insert(ctx context.Context, note *secondary.MasterNoteRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO master_notes ("+masterNoteColumns+") VALUES (?, ?, ?, ?, ?)",
		note.ID, note.CampaignID, note.Content, toUnix(note.CreatedAt), toUnix(note.UpdatedAt),
	)
	if err != nil {
		return mapError("insert master note", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "master_note", note.CampaignID, note.ID)
	}
	return nil
}

// Update writes a note's content and updated_at.
func (r *MasterNoteRepository) Update(ctx context.Context, note *secondary.MasterNoteRecord) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE master_notes SET content = ?, updated_at = ? WHERE id = ?",
		note.Content, toUnix(note.UpdatedAt), note.ID,
	)
	if err != nil {
		return mapError("update master note", err)
	}
	if err := requireOne("update master note "+note.ID, res); err != nil {
		return err
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "master_note", note.CampaignID, note.ID, "content", "", "")
	}
	return nil
}

// DeleteByID removes a note.
func (r *MasterNoteRepository) DeleteByID(ctx context.Context, id string) error {
	q := conn(ctx, r.db)

	var campaignID string
	if err := q.QueryRowContext(ctx, "SELECT campaign_id FROM master_notes WHERE id = ?", id).Scan(&campaignID); err != nil {
		return mapError("find master note "+id, err)
	}

	res, err := q.ExecContext(ctx, "DELETE FROM master_notes WHERE id = ?", id)
	if err != nil {
		return mapError("delete master note", err)
	}
	if err := requireOne("delete master note "+id, res); err != nil {
		return err
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "master_note", campaignID, id)
	}
	return nil
}

func scanMasterNote(row rowScanner) (*secondary.MasterNoteRecord, error) {
	var (
		record             secondary.MasterNoteRecord
		createdAt, updated int64
	)
	if err := row.Scan(&record.ID, &record.CampaignID, &record.Content, &createdAt, &updated); err != nil {
		return nil, err
	}
	record.CreatedAt = fromUnix(createdAt)
	record.UpdatedAt = fromUnix(updated)
	return &record, nil
}

// Ensure MasterNoteRepository implements the interface
var _ secondary.MasterNoteRepository = (*MasterNoteRepository)(nil)
