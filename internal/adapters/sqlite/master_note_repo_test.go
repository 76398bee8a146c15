package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/lorebook/internal/adapters/sqlite"
	"github.com/example/lorebook/internal/ports/secondary"
)

func TestMasterNoteRepository_FindAllByCampaign_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewMasterNoteRepository(db, nil)
	seedNote(t, db, "note-old", "camp-1", 0)
	seedNote(t, db, "note-new", "camp-1", 10)
	seedNote(t, db, "note-mid", "camp-1", 5)
	seedNote(t, db, "note-other", "camp-2", 20)

	notes, err := repo.FindAllByCampaign(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("FindAllByCampaign failed: %v", err)
	}
	want := []string{"note-new", "note-mid", "note-old"}
	if len(notes) != len(want) {
		t.Fatalf("expected %d notes, got %d", len(want), len(notes))
	}
	for i, n := range notes {
		if n.ID != want[i] {
			t.Errorf("index %d: got %s, want %s", i, n.ID, want[i])
		}
	}
}

func TestMasterNoteRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewMasterNoteRepository(db, nil)
	ctx := context.Background()
	seedNote(t, db, "note-1", "camp-1", 0)

	err := repo.Update(ctx, &secondary.MasterNoteRecord{ID: "note-1", CampaignID: "camp-1", Content: "Revised", UpdatedAt: seedTime})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := repo.FindByID(ctx, "note-1")
	if got.Content != "Revised" {
		t.Errorf("expected content to be updated, got %q", got.Content)
	}

	if err := repo.DeleteByID(ctx, "note-1"); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, "note-1"); !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
