package secondary

import (
	"context"
	"errors"
	"time"
)

// Port-level failures. Repositories return these (possibly wrapped) so the
// application can translate them without knowing the driver.
var (
	// ErrNotFound is returned when a lookup by id matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness or foreign key constraint.
	ErrConflict = errors.New("write conflict")
	// ErrTransient is returned when the store is busy, locked or unreachable.
	ErrTransient = errors.New("store unavailable")
)

// OrderUpdate assigns a new position to one row in a scope.
type OrderUpdate struct {
	ID    string
	Order int
}

// Transactor runs fn inside a single unit of work. Repositories called with
// the ctx passed to fn participate in the same transaction. If fn returns an
// error every write made through that ctx is rolled back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActRepository defines the secondary port for act persistence.
type ActRepository interface {
	// FindByID retrieves an act by its ID. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*ActRecord, error)

	// FindAllByCampaign retrieves a campaign's acts ordered by position.
	FindAllByCampaign(ctx context.Context, campaignID string) ([]*ActRecord, error)

	// Insert persists a new act.
	Insert(ctx context.Context, act *ActRecord) error

	// Update writes title and updated_at. Position is never touched.
	Update(ctx context.Context, act *ActRecord) error

	// DeleteByID removes an act. Returns ErrNotFound if absent.
	DeleteByID(ctx context.Context, id string) error

	// BulkUpdateOrder rewrites positions for acts of one campaign.
	BulkUpdateOrder(ctx context.Context, campaignID string, updates []OrderUpdate) error
}

// ActRecord represents an act as stored in persistence.
type ActRecord struct {
	ID         string
	CampaignID string
	Title      string
	Position   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EntryID returns the act ID.
func (r *ActRecord) EntryID() string { return r.ID }

// EntryOrder returns the stored position.
func (r *ActRecord) EntryOrder() int { return r.Position }

// ChapterRepository defines the secondary port for chapter persistence.
type ChapterRepository interface {
	// FindByID retrieves a chapter by its ID. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*ChapterRecord, error)

	// FindAllByAct retrieves an act's chapters ordered by position.
	FindAllByAct(ctx context.Context, actID string) ([]*ChapterRecord, error)

	// Insert persists a new chapter.
	Insert(ctx context.Context, chapter *ChapterRecord) error

	// Update writes title, content and updated_at.
	Update(ctx context.Context, chapter *ChapterRecord) error

	// DeleteByID removes a chapter. Returns ErrNotFound if absent.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAllByAct removes every chapter of an act without renumbering.
	// Returns the number of rows removed.
	DeleteAllByAct(ctx context.Context, actID string) (int, error)

	// BulkUpdateOrder rewrites positions for chapters of one act.
	BulkUpdateOrder(ctx context.Context, actID string, updates []OrderUpdate) error
}

// ChapterRecord represents a chapter as stored in persistence.
type ChapterRecord struct {
	ID        string
	ActID     string
	Title     string
	Content   string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryID returns the chapter ID.
func (r *ChapterRecord) EntryID() string { return r.ID }

// EntryOrder returns the stored position.
func (r *ChapterRecord) EntryOrder() int { return r.Position }

// MasterNoteRepository defines the secondary port for master note persistence.
type MasterNoteRepository interface {
	// FindByID retrieves a note by its ID. Returns ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*MasterNoteRecord, error)

	// FindAllByCampaign retrieves a campaign's notes in no particular order.
	FindAllByCampaign(ctx context.Context, campaignID string) ([]*MasterNoteRecord, error)

	// Insert persists a new note.
	Insert(ctx context.Context, note *MasterNoteRecord) error

	// Update writes content and updated_at.
	Update(ctx context.Context, note *MasterNoteRecord) error

	// DeleteByID removes a note. Returns ErrNotFound if absent.
	DeleteByID(ctx context.Context, id string) error
}

// MasterNoteRecord represents a master note as stored in persistence.
type MasterNoteRecord struct {
	ID         string
	CampaignID string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NoteID returns the note ID.
func (r *MasterNoteRecord) NoteID() string { return r.ID }

// NoteCreatedAt returns the creation time.
func (r *MasterNoteRecord) NoteCreatedAt() time.Time { return r.CreatedAt }

// JournalLogRepository defines the secondary port for the journal audit trail.
// Entries are immutable.
type JournalLogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, entry *JournalLogRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters JournalLogFilters) ([]*JournalLogRecord, error)
}

// JournalLogRecord represents one audit entry as stored in persistence.
type JournalLogRecord struct {
	ID         string
	CampaignID string
	Timestamp  time.Time
	ActorID    string // Empty string means null
	EntityType string
	EntityID   string
	Action     string // 'create', 'update', 'delete', 'reorder'
	FieldName  string // Empty string means null - for updates only
	OldValue   string
	NewValue   string
}

// JournalLogFilters contains filter options for querying the audit trail.
type JournalLogFilters struct {
	CampaignID string
	EntityType string
	EntityID   string
	Limit      int
}
