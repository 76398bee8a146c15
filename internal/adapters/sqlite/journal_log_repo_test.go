package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/lorebook/internal/adapters/sqlite"
	"github.com/example/lorebook/internal/ctxutil"
	"github.com/example/lorebook/internal/ports/secondary"
)

// newAuditedRepos wires the repositories the way production does: writes go
// through a log writer whose act lookups are not themselves audited.
func newAuditedRepos(t *testing.T) (*sqlite.ActRepository, *sqlite.ChapterRepository, *sqlite.MasterNoteRepository, *sqlite.JournalLogRepository) {
	t.Helper()
	db := setupTestDB(t)
	logRepo := sqlite.NewJournalLogRepository(db)
	writer := sqlite.NewLogWriterAdapter(logRepo, sqlite.NewActRepository(db, nil), nil)
	return sqlite.NewActRepository(db, writer),
		sqlite.NewChapterRepository(db, writer),
		sqlite.NewMasterNoteRepository(db, writer),
		logRepo
}

func TestJournalLog_RecordsWrites(t *testing.T) {
	acts, chapters, notes, logRepo := newAuditedRepos(t)
	ctx := ctxutil.WithActorID(context.Background(), "gm-alice")

	mustNoErr(t, acts.Insert(ctx, &secondary.ActRecord{ID: "act-1", CampaignID: "camp-1", Title: "One", CreatedAt: seedTime, UpdatedAt: seedTime}))
	mustNoErr(t, chapters.Insert(ctx, &secondary.ChapterRecord{ID: "chap-1", ActID: "act-1", Title: "Intro", CreatedAt: seedTime, UpdatedAt: seedTime}))
	mustNoErr(t, acts.Update(ctx, &secondary.ActRecord{ID: "act-1", CampaignID: "camp-1", Title: "Prologue", UpdatedAt: seedTime}))
	mustNoErr(t, notes.Insert(ctx, &secondary.MasterNoteRecord{ID: "note-1", CampaignID: "camp-1", Content: "x", CreatedAt: seedTime, UpdatedAt: seedTime}))

	entries, err := logRepo.List(ctx, secondary.JournalLogFilters{CampaignID: "camp-1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	// Newest first.
	if entries[0].EntityType != "master_note" || entries[3].EntityID != "act-1" {
		t.Errorf("unexpected order: first %s, last %s", entries[0].EntityType, entries[3].EntityID)
	}
	for _, e := range entries {
		if e.ActorID != "gm-alice" {
			t.Errorf("entry %s: actor %q, want gm-alice", e.ID, e.ActorID)
		}
	}

	rename := entries[1]
	if rename.Action != "update" || rename.FieldName != "title" || rename.OldValue != "One" || rename.NewValue != "Prologue" {
		t.Errorf("unexpected rename entry %+v", rename)
	}
	chapter := entries[2]
	if chapter.EntityType != "chapter" || chapter.CampaignID != "camp-1" {
		t.Errorf("expected chapter entry attributed to camp-1, got %+v", chapter)
	}
}

func TestJournalLog_Filters(t *testing.T) {
	acts, _, _, logRepo := newAuditedRepos(t)
	ctx := context.Background()

	for i, id := range []string{"act-1", "act-2", "act-3"} {
		mustNoErr(t, acts.Insert(ctx, &secondary.ActRecord{ID: id, CampaignID: "camp-1", Title: id, Position: i, CreatedAt: seedTime, UpdatedAt: seedTime}))
	}
	mustNoErr(t, acts.Insert(ctx, &secondary.ActRecord{ID: "act-9", CampaignID: "camp-2", Title: "elsewhere", CreatedAt: seedTime, UpdatedAt: seedTime}))

	byEntity, err := logRepo.List(ctx, secondary.JournalLogFilters{EntityID: "act-2"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byEntity) != 1 || byEntity[0].EntityID != "act-2" {
		t.Fatalf("expected one entry for act-2, got %v", byEntity)
	}
	if byEntity[0].ActorID != "" {
		t.Errorf("expected empty actor without context, got %q", byEntity[0].ActorID)
	}

	limited, err := logRepo.List(ctx, secondary.JournalLogFilters{CampaignID: "camp-1", Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestJournalLog_ReorderEntry(t *testing.T) {
	acts, _, _, logRepo := newAuditedRepos(t)
	ctx := context.Background()
	mustNoErr(t, acts.Insert(ctx, &secondary.ActRecord{ID: "act-1", CampaignID: "camp-1", Title: "a", Position: 0, CreatedAt: seedTime, UpdatedAt: seedTime}))
	mustNoErr(t, acts.Insert(ctx, &secondary.ActRecord{ID: "act-2", CampaignID: "camp-1", Title: "b", Position: 1, CreatedAt: seedTime, UpdatedAt: seedTime}))

	mustNoErr(t, acts.BulkUpdateOrder(ctx, "camp-1", []secondary.OrderUpdate{{ID: "act-1", Order: 1}, {ID: "act-2", Order: 0}}))

	entries, err := logRepo.List(ctx, secondary.JournalLogFilters{CampaignID: "camp-1", Limit: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "reorder" || entries[0].NewValue != "2" {
		t.Fatalf("expected reorder entry moving 2 acts, got %+v", entries)
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
