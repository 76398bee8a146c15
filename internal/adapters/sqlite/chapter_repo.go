package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/lorebook/internal/ports/secondary"
)

const chapterColumns = "id, act_id, title, content, position, created_at, updated_at"

// ChapterRepository implements secondary.ChapterRepository with SQLite.
type ChapterRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewChapterRepository creates a new SQLite chapter repository.
func NewChapterRepository(db *sql.DB, logWriter secondary.LogWriter) *ChapterRepository {
	return &ChapterRepository{db: db, logWriter: logWriter}
}

// FindByID retrieves a chapter by its ID.
func (r *ChapterRepository) FindByID(ctx context.Context, id string) (*secondary.ChapterRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+chapterColumns+" FROM chapters WHERE id = ?", id)
	record, err := scanChapter(row)
	if err != nil {
		return nil, mapError("find chapter "+id, err)
	}
	return record, nil
}

// FindAllByAct retrieves an act's chapters ordered by position.
func (r *ChapterRepository) FindAllByAct(ctx context.Context, actID string) ([]*secondary.ChapterRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+chapterColumns+" FROM chapters WHERE act_id = ? ORDER BY position, id",
		actID,
	)
	if err != nil {
		return nil, mapError("list chapters", err)
	}
	defer rows.Close()

	var chapters []*secondary.ChapterRecord
	for rows.Next() {
		record, err := scanChapter(rows)
		if err != nil {
			return nil, mapError("scan chapter", err)
		}
		chapters = append(chapters, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list chapters", err)
	}
	return chapters, nil
}

// Insert persists a new chapter.
func (r *ChapterRepository) Insert(ctx context.Context, chapter *secondary.ChapterRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO chapters ("+chapterColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		chapter.ID, chapter.ActID, chapter.Title, chapter.Content, chapter.Position,
		toUnix(chapter.CreatedAt), toUnix(chapter.UpdatedAt),
	)
	if err != nil {
		return mapError("insert chapter", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "chapter", chapter.ActID, chapter.ID)
	}
	return nil
}

// Update writes a chapter's title, content and updated_at.
func (r *ChapterRepository) Update(ctx context.Context, chapter *secondary.ChapterRecord) error {
	q := conn(ctx, r.db)

	var oldTitle, oldContent string
	err := q.QueryRowContext(ctx, "SELECT title, content FROM chapters WHERE id = ?", chapter.ID).Scan(&oldTitle, &oldContent)
	if err != nil {
		return mapError("find chapter "+chapter.ID, err)
	}

	res, err := q.ExecContext(ctx,
		"UPDATE chapters SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		chapter.Title, chapter.Content, toUnix(chapter.UpdatedAt), chapter.ID,
	)
	if err != nil {
		return mapError("update chapter", err)
	}
	if err := requireOne("update chapter "+chapter.ID, res); err != nil {
		return err
	}

	if r.logWriter != nil {
		if oldTitle != chapter.Title {
			_ = r.logWriter.LogUpdate(ctx, "chapter", chapter.ActID, chapter.ID, "title", oldTitle, chapter.Title)
		}
		if oldContent != chapter.Content {
			// Content can be long; only record that it changed.
			_ = r.logWriter.LogUpdate(ctx, "chapter", chapter.ActID, chapter.ID, "content", "", "")
		}
	}
	return nil
}

// DeleteByID removes a chapter.
func (r *ChapterRepository) DeleteByID(ctx context.Context, id string) error {
	q := conn(ctx, r.db)

	var actID string
	if err := q.QueryRowContext(ctx, "SELECT act_id FROM chapters WHERE id = ?", id).Scan(&actID); err != nil {
		return mapError("find chapter "+id, err)
	}

	res, err := q.ExecContext(ctx, "DELETE FROM chapters WHERE id = ?", id)
	if err != nil {
		return mapError("delete chapter", err)
	}
	if err := requireOne("delete chapter "+id, res); err != nil {
		return err
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "chapter", actID, id)
	}
	return nil
}

// DeleteAllByAct removes every chapter of an act without renumbering.
func (r *ChapterRepository) DeleteAllByAct(ctx context.Context, actID string) (int, error) {
	q := conn(ctx, r.db)

	rows, err := q.QueryContext(ctx, "SELECT id FROM chapters WHERE act_id = ? ORDER BY position", actID)
	if err != nil {
		return 0, mapError("list chapters", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, mapError("scan chapter id", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, mapError("list chapters", err)
	}

	res, err := q.ExecContext(ctx, "DELETE FROM chapters WHERE act_id = ?", actID)
	if err != nil {
		return 0, mapError("delete chapters of act "+actID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError("delete chapters of act "+actID, err)
	}

	if r.logWriter != nil {
		for _, id := range ids {
			_ = r.logWriter.LogDelete(ctx, "chapter", actID, id)
		}
	}
	return int(n), nil
}

// BulkUpdateOrder rewrites positions for chapters of one act.
func (r *ChapterRepository) BulkUpdateOrder(ctx context.Context, actID string, updates []secondary.OrderUpdate) error {
	if err := bulkUpdatePositions(ctx, r.db, "chapters", "act_id", actID, updates); err != nil {
		return err
	}
	if r.logWriter != nil && len(updates) > 0 {
		_ = r.logWriter.LogReorder(ctx, "chapter", actID, len(updates))
	}
	return nil
}

func scanChapter(row rowScanner) (*secondary.ChapterRecord, error) {
	var (
		record             secondary.ChapterRecord
		createdAt, updated int64
	)
	err := row.Scan(&record.ID, &record.ActID, &record.Title, &record.Content, &record.Position, &createdAt, &updated)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = fromUnix(createdAt)
	record.UpdatedAt = fromUnix(updated)
	return &record, nil
}

// Ensure ChapterRepository implements the interface
var _ secondary.ChapterRepository = (*ChapterRepository)(nil)
