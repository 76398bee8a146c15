package primary

import (
	"context"
	"time"
)

// JournalService defines the primary port for campaign journal operations.
// Every mutating call that returns nil has left the affected scope's
// positions dense (0..n-1). Errors carry one of the codes in internal/errors.
type JournalService interface {
	// CreateAct appends a new act to the end of a campaign.
	CreateAct(ctx context.Context, req CreateActRequest) (*Act, error)

	// GetAct retrieves an act with its chapters.
	GetAct(ctx context.Context, campaignID, actID string) (*Act, error)

	// ListActs lists a campaign's acts, each with its chapters, by position.
	ListActs(ctx context.Context, campaignID string) ([]*Act, error)

	// UpdateAct changes an act's title. Position is never touched.
	UpdateAct(ctx context.Context, req UpdateActRequest) (*Act, error)

	// DeleteAct removes an act and all of its chapters, then compacts the
	// remaining acts. Either everything is removed or nothing is.
	DeleteAct(ctx context.Context, campaignID, actID string) error

	// ReorderActs applies a reorder batch to a campaign's acts and returns
	// the reloaded list.
	ReorderActs(ctx context.Context, req ReorderActsRequest) ([]*Act, error)

	// CreateChapter appends a new chapter to the end of an act.
	CreateChapter(ctx context.Context, req CreateChapterRequest) (*Chapter, error)

	// ListChapters lists an act's chapters by position.
	ListChapters(ctx context.Context, campaignID, actID string) ([]*Chapter, error)

	// UpdateChapter changes a chapter's title and content.
	UpdateChapter(ctx context.Context, req UpdateChapterRequest) (*Chapter, error)

	// DeleteChapter removes a chapter and compacts its siblings.
	DeleteChapter(ctx context.Context, campaignID, actID, chapterID string) error

	// ReorderChapters applies a reorder batch to an act's chapters and
	// returns the reloaded list.
	ReorderChapters(ctx context.Context, req ReorderChaptersRequest) ([]*Chapter, error)

	// CreateMasterNote creates a campaign note.
	CreateMasterNote(ctx context.Context, req CreateMasterNoteRequest) (*MasterNote, error)

	// ListMasterNotes lists a campaign's notes, newest first.
	ListMasterNotes(ctx context.Context, campaignID string) ([]*MasterNote, error)

	// UpdateMasterNote changes a note's content.
	UpdateMasterNote(ctx context.Context, req UpdateMasterNoteRequest) (*MasterNote, error)

	// DeleteMasterNote removes a note.
	DeleteMasterNote(ctx context.Context, campaignID, noteID string) error

	// GetJournal loads a campaign's acts, chapters and notes in one call.
	GetJournal(ctx context.Context, campaignID string) (*Journal, error)

	// CheckJournal re-validates position density for every scope of a
	// campaign. It returns the report and a CONSISTENCY error if any scope
	// has problems.
	CheckJournal(ctx context.Context, campaignID string) (*JournalCheck, error)

	// ListJournalLog lists audit entries for a campaign, newest first.
	ListJournalLog(ctx context.Context, filters JournalLogFilters) ([]*JournalLogEntry, error)
}

// CreateActRequest contains parameters for creating an act.
type CreateActRequest struct {
	CampaignID string
	Title      string
}

// UpdateActRequest contains parameters for updating an act.
// CampaignID may be empty, in which case the act's own campaign is used.
type UpdateActRequest struct {
	CampaignID string
	ActID      string
	Title      string
}

// Position is one entry of a reorder batch.
type Position struct {
	ID    string
	Order int
}

// ReorderActsRequest contains a reorder batch for a campaign's acts.
type ReorderActsRequest struct {
	CampaignID string
	Positions  []Position
}

// CreateChapterRequest contains parameters for creating a chapter.
type CreateChapterRequest struct {
	CampaignID string // optional
	ActID      string
	Title      string
	Content    string
}

// UpdateChapterRequest contains parameters for updating a chapter.
type UpdateChapterRequest struct {
	CampaignID string // optional
	ActID      string
	ChapterID  string
	Title      string
	Content    string
}

// ReorderChaptersRequest contains a reorder batch for an act's chapters.
type ReorderChaptersRequest struct {
	CampaignID string // optional
	ActID      string
	Positions  []Position
}

// CreateMasterNoteRequest contains parameters for creating a master note.
type CreateMasterNoteRequest struct {
	CampaignID string
	Content    string
}

// UpdateMasterNoteRequest contains parameters for updating a master note.
type UpdateMasterNoteRequest struct {
	CampaignID string // optional
	NoteID     string
	Content    string
}

// JournalLogFilters contains filter options for the audit trail.
type JournalLogFilters struct {
	CampaignID string
	EntityType string
	EntityID   string
	Limit      int
}

// Act represents a top-level story unit within a campaign.
type Act struct {
	ID         string
	CampaignID string
	Title      string
	Order      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Chapters   []*Chapter
}

// Chapter represents an ordered scene within an act.
type Chapter struct {
	ID        string
	ActID     string
	Title     string
	Content   string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MasterNote represents a free-form campaign note.
type MasterNote struct {
	ID         string
	CampaignID string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Journal is the full read model of one campaign.
type Journal struct {
	CampaignID  string
	Acts        []*Act
	MasterNotes []*MasterNote
}

// JournalCheck reports density problems per scope.
type JournalCheck struct {
	CampaignID string
	Scopes     int                 // number of scopes inspected
	Problems   map[string][]string // scope -> problems, empty when healthy
}

// Healthy reports whether every inspected scope was dense.
func (c *JournalCheck) Healthy() bool { return len(c.Problems) == 0 }

// JournalLogEntry represents one audit entry.
type JournalLogEntry struct {
	ID         string
	CampaignID string
	Timestamp  time.Time
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
}
