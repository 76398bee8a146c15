package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/lorebook/internal/ports/secondary"
)

// JournalLogRepository implements secondary.JournalLogRepository with SQLite.
type JournalLogRepository struct {
	db *sql.DB
}

// NewJournalLogRepository creates a new SQLite journal log repository.
func NewJournalLogRepository(db *sql.DB) *JournalLogRepository {
	return &JournalLogRepository{db: db}
}

// Create persists a new journal log entry.
func (r *JournalLogRepository) Create(ctx context.Context, entry *secondary.JournalLogRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO journal_log (id, campaign_id, timestamp, actor_id, entity_type, entity_id, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CampaignID,
		toUnix(entry.Timestamp),
		nullString(entry.ActorID),
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		nullString(entry.FieldName),
		nullString(entry.OldValue),
		nullString(entry.NewValue),
	)
	if err != nil {
		return mapError("create journal log", err)
	}
	return nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *JournalLogRepository) List(ctx context.Context, filters secondary.JournalLogFilters) ([]*secondary.JournalLogRecord, error) {
	query := `SELECT id, campaign_id, timestamp, actor_id, entity_type, entity_id, action, field_name, old_value, new_value FROM journal_log WHERE 1=1`
	args := []any{}

	if filters.CampaignID != "" {
		query += " AND campaign_id = ?"
		args = append(args, filters.CampaignID)
	}

	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}

	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("list journal log", err)
	}
	defer rows.Close()

	var entries []*secondary.JournalLogRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			timestamp int64
		)

		record := &secondary.JournalLogRecord{}
		err := rows.Scan(&record.ID,
			&record.CampaignID,
			&timestamp,
			&actorID,
			&record.EntityType,
			&record.EntityID,
			&record.Action,
			&fieldName,
			&oldValue,
			&newValue)
		if err != nil {
			return nil, mapError("scan journal log", err)
		}
		record.Timestamp = fromUnix(timestamp)
		record.ActorID = actorID.String
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String

		entries = append(entries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list journal log", err)
	}

	return entries, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure JournalLogRepository implements the interface
var _ secondary.JournalLogRepository = (*JournalLogRepository)(nil)
