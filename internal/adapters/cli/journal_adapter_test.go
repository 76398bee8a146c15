package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	apperrors "github.com/example/lorebook/internal/errors"
	"github.com/example/lorebook/internal/ports/primary"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// mockJournalService implements primary.JournalService for testing
type mockJournalService struct {
	acts          []*primary.Act
	notes         []*primary.MasterNote
	check         *primary.JournalCheck
	checkErr      error
	log           []*primary.JournalLogEntry
	err           error
	lastReorder   primary.ReorderActsRequest
	lastChapReq   primary.CreateChapterRequest
	lastLogFilter primary.JournalLogFilters
	deleted       []string
}

func (m *mockJournalService) CreateAct(ctx context.Context, req primary.CreateActRequest) (*primary.Act, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Act{ID: "act-1", CampaignID: req.CampaignID, Title: req.Title, Order: len(m.acts)}, nil
}

func (m *mockJournalService) GetAct(ctx context.Context, campaignID, actID string) (*primary.Act, error) {
	for _, a := range m.acts {
		if a.ID == actID {
			return a, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "act "+actID+" not found")
}

func (m *mockJournalService) ListActs(ctx context.Context, campaignID string) ([]*primary.Act, error) {
	return m.acts, m.err
}

func (m *mockJournalService) UpdateAct(ctx context.Context, req primary.UpdateActRequest) (*primary.Act, error) {
	return &primary.Act{ID: req.ActID, Title: req.Title}, m.err
}

func (m *mockJournalService) DeleteAct(ctx context.Context, campaignID, actID string) error {
	m.deleted = append(m.deleted, actID)
	return m.err
}

func (m *mockJournalService) ReorderActs(ctx context.Context, req primary.ReorderActsRequest) ([]*primary.Act, error) {
	m.lastReorder = req
	return m.acts, m.err
}

func (m *mockJournalService) CreateChapter(ctx context.Context, req primary.CreateChapterRequest) (*primary.Chapter, error) {
	m.lastChapReq = req
	return &primary.Chapter{ID: "chap-1", ActID: req.ActID, Title: req.Title, Order: 2}, m.err
}

func (m *mockJournalService) ListChapters(ctx context.Context, campaignID, actID string) ([]*primary.Chapter, error) {
	for _, a := range m.acts {
		if a.ID == actID {
			return a.Chapters, nil
		}
	}
	return nil, m.err
}

func (m *mockJournalService) UpdateChapter(ctx context.Context, req primary.UpdateChapterRequest) (*primary.Chapter, error) {
	return &primary.Chapter{ID: req.ChapterID, Title: req.Title}, m.err
}

func (m *mockJournalService) DeleteChapter(ctx context.Context, campaignID, actID, chapterID string) error {
	m.deleted = append(m.deleted, chapterID)
	return m.err
}

func (m *mockJournalService) ReorderChapters(ctx context.Context, req primary.ReorderChaptersRequest) ([]*primary.Chapter, error) {
	return nil, m.err
}

func (m *mockJournalService) CreateMasterNote(ctx context.Context, req primary.CreateMasterNoteRequest) (*primary.MasterNote, error) {
	return &primary.MasterNote{ID: "note-1", Content: req.Content}, m.err
}

func (m *mockJournalService) ListMasterNotes(ctx context.Context, campaignID string) ([]*primary.MasterNote, error) {
	return m.notes, m.err
}

func (m *mockJournalService) UpdateMasterNote(ctx context.Context, req primary.UpdateMasterNoteRequest) (*primary.MasterNote, error) {
	return &primary.MasterNote{ID: req.NoteID, Content: req.Content}, m.err
}

func (m *mockJournalService) DeleteMasterNote(ctx context.Context, campaignID, noteID string) error {
	m.deleted = append(m.deleted, noteID)
	return m.err
}

func (m *mockJournalService) GetJournal(ctx context.Context, campaignID string) (*primary.Journal, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.Journal{CampaignID: campaignID, Acts: m.acts, MasterNotes: m.notes}, nil
}

func (m *mockJournalService) CheckJournal(ctx context.Context, campaignID string) (*primary.JournalCheck, error) {
	return m.check, m.checkErr
}

func (m *mockJournalService) ListJournalLog(ctx context.Context, filters primary.JournalLogFilters) ([]*primary.JournalLogEntry, error) {
	m.lastLogFilter = filters
	return m.log, m.err
}

func sampleActs() []*primary.Act {
	return []*primary.Act{
		{ID: "act-1", CampaignID: "camp-1", Title: "The Summons", Order: 0, Chapters: []*primary.Chapter{
			{ID: "chap-1", ActID: "act-1", Title: "A Letter", Order: 0},
			{ID: "chap-2", ActID: "act-1", Title: "The Road", Order: 1},
		}},
		{ID: "act-2", CampaignID: "camp-1", Title: "Into the Marsh", Order: 1},
	}
}

func newTestAdapter(svc *mockJournalService) (*JournalAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewJournalAdapter(svc, &buf), &buf
}

func TestJournalAdapter_CreateAct(t *testing.T) {
	adapter, out := newTestAdapter(&mockJournalService{})

	if err := adapter.CreateAct(context.Background(), "camp-1", "Prologue"); err != nil {
		t.Fatalf("CreateAct failed: %v", err)
	}
	if !strings.Contains(out.String(), "Created act act-1 at position 0: Prologue") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestJournalAdapter_CreateAct_PassesErrorThrough(t *testing.T) {
	want := apperrors.New(apperrors.CodeValidation, "act title is required")
	adapter, out := newTestAdapter(&mockJournalService{err: want})

	err := adapter.CreateAct(context.Background(), "camp-1", "")
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output on failure, got %q", out.String())
	}
}

func TestJournalAdapter_ListActs(t *testing.T) {
	adapter, out := newTestAdapter(&mockJournalService{acts: sampleActs()})

	if err := adapter.ListActs(context.Background(), "camp-1"); err != nil {
		t.Fatalf("ListActs failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"ORDER", "act-1", "The Summons", "Into the Marsh"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
	if strings.Index(got, "act-1") > strings.Index(got, "act-2") {
		t.Error("expected acts in order")
	}
}

func TestJournalAdapter_ListActs_Empty(t *testing.T) {
	adapter, out := newTestAdapter(&mockJournalService{})

	if err := adapter.ListActs(context.Background(), "camp-1"); err != nil {
		t.Fatalf("ListActs failed: %v", err)
	}
	if !strings.Contains(out.String(), "No acts found") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestJournalAdapter_ShowAct(t *testing.T) {
	adapter, out := newTestAdapter(&mockJournalService{acts: sampleActs()})

	if err := adapter.ShowAct(context.Background(), "camp-1", "act-1"); err != nil {
		t.Fatalf("ShowAct failed: %v", err)
	}
	if !strings.Contains(out.String(), "Act 0: The Summons") || !strings.Contains(out.String(), "chap-2") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := adapter.ShowAct(context.Background(), "camp-1", "act-9"); !apperrors.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestJournalAdapter_ReorderActs(t *testing.T) {
	svc := &mockJournalService{acts: sampleActs()}
	adapter, _ := newTestAdapter(svc)

	if err := adapter.ReorderActs(context.Background(), "camp-1", []string{"act-2", "act-1"}); err != nil {
		t.Fatalf("ReorderActs failed: %v", err)
	}
	want := []primary.Position{{ID: "act-2", Order: 0}, {ID: "act-1", Order: 1}}
	got := svc.lastReorder.Positions
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("positions = %v, want %v", got, want)
	}
}

func TestJournalAdapter_CreateChapter(t *testing.T) {
	svc := &mockJournalService{}
	adapter, out := newTestAdapter(svc)

	if err := adapter.CreateChapter(context.Background(), "camp-1", "act-1", "Fog", "Bog wights."); err != nil {
		t.Fatalf("CreateChapter failed: %v", err)
	}
	if svc.lastChapReq.ActID != "act-1" || svc.lastChapReq.Content != "Bog wights." {
		t.Errorf("unexpected request %+v", svc.lastChapReq)
	}
	if !strings.Contains(out.String(), "Created chapter chap-1 at position 2: Fog") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestJournalAdapter_Deletes(t *testing.T) {
	svc := &mockJournalService{}
	adapter, out := newTestAdapter(svc)
	ctx := context.Background()

	if err := adapter.DeleteAct(ctx, "camp-1", "act-1"); err != nil {
		t.Fatalf("DeleteAct failed: %v", err)
	}
	if err := adapter.DeleteChapter(ctx, "camp-1", "act-2", "chap-3"); err != nil {
		t.Fatalf("DeleteChapter failed: %v", err)
	}
	if err := adapter.DeleteNote(ctx, "camp-1", "note-1"); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	if strings.Join(svc.deleted, ",") != "act-1,chap-3,note-1" {
		t.Errorf("unexpected deletes %v", svc.deleted)
	}
	if strings.Count(out.String(), "✓ Deleted") != 3 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestJournalAdapter_ListNotes_FirstLineOnly(t *testing.T) {
	svc := &mockJournalService{notes: []*primary.MasterNote{
		{ID: "note-1", Content: "NPC: the ferryman\nWants three coins", CreatedAt: time.Now()},
	}}
	adapter, out := newTestAdapter(svc)

	if err := adapter.ListNotes(context.Background(), "camp-1"); err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if !strings.Contains(out.String(), "NPC: the ferryman …") || strings.Contains(out.String(), "three coins") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestJournalAdapter_ShowJournal(t *testing.T) {
	svc := &mockJournalService{acts: sampleActs(), notes: []*primary.MasterNote{{ID: "note-1", Content: "Loot table"}}}
	adapter, out := newTestAdapter(svc)

	if err := adapter.ShowJournal(context.Background(), "camp-1"); err != nil {
		t.Fatalf("ShowJournal failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Campaign camp-1", "1. The Summons", "1.2 The Road", "2. Into the Marsh", "Loot table"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestJournalAdapter_CheckJournal(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		svc := &mockJournalService{check: &primary.JournalCheck{CampaignID: "camp-1", Scopes: 3, Problems: map[string][]string{}}}
		adapter, out := newTestAdapter(svc)

		if err := adapter.CheckJournal(context.Background(), "camp-1"); err != nil {
			t.Fatalf("CheckJournal failed: %v", err)
		}
		if !strings.Contains(out.String(), "3 scopes dense") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		svc := &mockJournalService{
			check: &primary.JournalCheck{CampaignID: "camp-1", Scopes: 2, Problems: map[string][]string{
				"act:act-1": {"gap at order 1"},
			}},
			checkErr: apperrors.New(apperrors.CodeConsistency, "journal positions are not dense"),
		}
		adapter, out := newTestAdapter(svc)

		err := adapter.CheckJournal(context.Background(), "camp-1")
		if !apperrors.IsConsistency(err) {
			t.Fatalf("expected CONSISTENCY, got %v", err)
		}
		if !strings.Contains(out.String(), "act:act-1") || !strings.Contains(out.String(), "gap at order 1") {
			t.Errorf("expected report before error, got %q", out.String())
		}
	})
}

func TestJournalAdapter_Log(t *testing.T) {
	svc := &mockJournalService{log: []*primary.JournalLogEntry{
		{ID: "log-1", Timestamp: time.Now(), ActorID: "gm-alice", EntityType: "act", EntityID: "act-1", Action: "update", FieldName: "title", OldValue: "One", NewValue: "Prologue"},
		{ID: "log-2", Timestamp: time.Now(), EntityType: "act", EntityID: "camp-1", Action: "reorder", FieldName: "position", NewValue: "2"},
	}}
	adapter, out := newTestAdapter(svc)

	filters := primary.JournalLogFilters{CampaignID: "camp-1", Limit: 10}
	if err := adapter.Log(context.Background(), filters); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if svc.lastLogFilter != filters {
		t.Errorf("filters = %+v, want %+v", svc.lastLogFilter, filters)
	}
	got := out.String()
	for _, want := range []string{"gm-alice", `title: "One" → "Prologue"`, "2 moved"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestParsePositions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []primary.Position
		wantErr bool
	}{
		{name: "bare ids use index", args: []string{"b", "a"}, want: []primary.Position{{ID: "b", Order: 0}, {ID: "a", Order: 1}}},
		{name: "explicit orders", args: []string{"a=1", "b=0"}, want: []primary.Position{{ID: "a", Order: 1}, {ID: "b", Order: 0}}},
		{name: "empty", args: nil, wantErr: true},
		{name: "mixed", args: []string{"a=1", "b"}, wantErr: true},
		{name: "bad number", args: []string{"a=x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositions(tt.args)
			if tt.wantErr {
				if !apperrors.IsValidation(err) {
					t.Fatalf("expected VALIDATION, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

type recordingChapterService struct {
	*mockJournalService
	lastUpdate primary.UpdateChapterRequest
}

func (m *recordingChapterService) UpdateChapter(ctx context.Context, req primary.UpdateChapterRequest) (*primary.Chapter, error) {
	m.lastUpdate = req
	return &primary.Chapter{ID: req.ChapterID, Title: req.Title, Content: req.Content}, nil
}

func TestJournalAdapter_UpdateChapter_KeepsContentWhenOmitted(t *testing.T) {
	acts := sampleActs()
	acts[0].Chapters[1].Content = "existing notes"
	svc := &recordingChapterService{mockJournalService: &mockJournalService{acts: acts}}
	adapter := NewJournalAdapter(svc, &bytes.Buffer{})
	ctx := context.Background()

	if err := adapter.UpdateChapter(ctx, "camp-1", "act-1", "chap-2", "Renamed", nil); err != nil {
		t.Fatalf("UpdateChapter failed: %v", err)
	}
	if svc.lastUpdate.Content != "existing notes" {
		t.Errorf("expected current content to be kept, got %q", svc.lastUpdate.Content)
	}

	replacement := ""
	if err := adapter.UpdateChapter(ctx, "camp-1", "act-1", "chap-2", "Renamed", &replacement); err != nil {
		t.Fatalf("UpdateChapter failed: %v", err)
	}
	if svc.lastUpdate.Content != "" {
		t.Errorf("expected explicit empty content, got %q", svc.lastUpdate.Content)
	}

	if err := adapter.UpdateChapter(ctx, "camp-1", "act-1", "chap-9", "x", nil); !apperrors.IsNotFound(err) {
		t.Fatalf("expected NOT_FOUND for unknown chapter, got %v", err)
	}
}
