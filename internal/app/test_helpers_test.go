package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/example/lorebook/internal/ports/secondary"
)

// memJournal is the shared in-memory state behind the mock repositories.
// Records are stored by value so callers never alias stored state.
type memJournal struct {
	mu       sync.Mutex
	acts     map[string]secondary.ActRecord
	chapters map[string]secondary.ChapterRecord
	notes    map[string]secondary.MasterNoteRecord
	log      []secondary.JournalLogRecord
}

func newMemJournal() *memJournal {
	return &memJournal{
		acts:     make(map[string]secondary.ActRecord),
		chapters: make(map[string]secondary.ChapterRecord),
		notes:    make(map[string]secondary.MasterNoteRecord),
	}
}

type memSnapshot struct {
	acts     map[string]secondary.ActRecord
	chapters map[string]secondary.ChapterRecord
	notes    map[string]secondary.MasterNoteRecord
	log      int
}

func (m *memJournal) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		acts:     maps.Clone(m.acts),
		chapters: maps.Clone(m.chapters),
		notes:    maps.Clone(m.notes),
		log:      len(m.log),
	}
}

func (m *memJournal) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acts, m.chapters, m.notes = s.acts, s.chapters, s.notes
	m.log = m.log[:s.log]
}

// ============================================================================
// Mock Transactor
// ============================================================================

type txKey struct{}

// mockTransactor serializes transactions like a single-writer store and rolls
// the shared state back when fn fails. With concurrent set it neither
// serializes nor rolls back, leaving all mutual exclusion to the facade.
type mockTransactor struct {
	mu         sync.Mutex
	state      *memJournal
	concurrent bool
}

func (t *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	if t.concurrent {
		return fn(context.WithValue(ctx, txKey{}, true))
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.state.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.state.restore(snap)
		return err
	}
	return nil
}

// ============================================================================
// Mock Repositories
// ============================================================================

// mockActRepository implements secondary.ActRepository for testing.
type mockActRepository struct {
	state      *memJournal
	findAllErr error
	insertErr  error
	updateErr  error
	deleteErr  error
	bulkErr    error
	blockReads bool // wait for ctx to end on FindAllByCampaign
	insertHook func(act *secondary.ActRecord)
}

func (m *mockActRepository) FindByID(ctx context.Context, id string) (*secondary.ActRecord, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	rec, ok := m.state.acts[id]
	if !ok {
		return nil, fmt.Errorf("act %s: %w", id, secondary.ErrNotFound)
	}
	return &rec, nil
}

func (m *mockActRepository) FindAllByCampaign(ctx context.Context, campaignID string) ([]*secondary.ActRecord, error) {
	if m.blockReads {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.findAllErr != nil {
		return nil, m.findAllErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []*secondary.ActRecord
	for _, rec := range m.state.acts {
		if rec.CampaignID == campaignID {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *mockActRepository) Insert(ctx context.Context, act *secondary.ActRecord) error {
	if m.insertHook != nil {
		m.insertHook(act)
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, rec := range m.state.acts {
		if rec.CampaignID == act.CampaignID && rec.Position == act.Position {
			return fmt.Errorf("position %d taken: %w", act.Position, secondary.ErrConflict)
		}
	}
	m.state.acts[act.ID] = *act
	return nil
}

func (m *mockActRepository) Update(ctx context.Context, act *secondary.ActRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	rec, ok := m.state.acts[act.ID]
	if !ok {
		return secondary.ErrNotFound
	}
	rec.Title, rec.UpdatedAt = act.Title, act.UpdatedAt
	m.state.acts[act.ID] = rec
	return nil
}

func (m *mockActRepository) DeleteByID(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.acts[id]; !ok {
		return secondary.ErrNotFound
	}
	for _, ch := range m.state.chapters {
		if ch.ActID == id {
			return fmt.Errorf("act %s still has chapters: %w", id, secondary.ErrConflict)
		}
	}
	delete(m.state.acts, id)
	return nil
}

func (m *mockActRepository) BulkUpdateOrder(ctx context.Context, campaignID string, updates []secondary.OrderUpdate) error {
	if m.bulkErr != nil {
		return m.bulkErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, u := range updates {
		rec, ok := m.state.acts[u.ID]
		if !ok || rec.CampaignID != campaignID {
			return secondary.ErrNotFound
		}
		rec.Position = u.Order
		m.state.acts[u.ID] = rec
	}
	return nil
}

// mockChapterRepository implements secondary.ChapterRepository for testing.
type mockChapterRepository struct {
	state        *memJournal
	insertErr    error
	deleteErr    error
	deleteAllErr error // returned after the first chapter is removed
	bulkErr      error
	dropMoves    bool // silently ignore BulkUpdateOrder
	insertHook   func(chapter *secondary.ChapterRecord)
}

func (m *mockChapterRepository) FindByID(ctx context.Context, id string) (*secondary.ChapterRecord, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	rec, ok := m.state.chapters[id]
	if !ok {
		return nil, fmt.Errorf("chapter %s: %w", id, secondary.ErrNotFound)
	}
	return &rec, nil
}

func (m *mockChapterRepository) FindAllByAct(ctx context.Context, actID string) ([]*secondary.ChapterRecord, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []*secondary.ChapterRecord
	for _, rec := range m.state.chapters {
		if rec.ActID == actID {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *mockChapterRepository) Insert(ctx context.Context, chapter *secondary.ChapterRecord) error {
	if m.insertHook != nil {
		m.insertHook(chapter)
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.acts[chapter.ActID]; !ok {
		return fmt.Errorf("act %s: %w", chapter.ActID, secondary.ErrConflict)
	}
	m.state.chapters[chapter.ID] = *chapter
	return nil
}

func (m *mockChapterRepository) Update(ctx context.Context, chapter *secondary.ChapterRecord) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	rec, ok := m.state.chapters[chapter.ID]
	if !ok {
		return secondary.ErrNotFound
	}
	rec.Title, rec.Content, rec.UpdatedAt = chapter.Title, chapter.Content, chapter.UpdatedAt
	m.state.chapters[chapter.ID] = rec
	return nil
}

func (m *mockChapterRepository) DeleteByID(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.chapters[id]; !ok {
		return secondary.ErrNotFound
	}
	delete(m.state.chapters, id)
	return nil
}

func (m *mockChapterRepository) DeleteAllByAct(ctx context.Context, actID string) (int, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	n := 0
	for id, rec := range m.state.chapters {
		if rec.ActID != actID {
			continue
		}
		delete(m.state.chapters, id)
		n++
		if m.deleteAllErr != nil {
			return n, m.deleteAllErr
		}
	}
	return n, nil
}

func (m *mockChapterRepository) BulkUpdateOrder(ctx context.Context, actID string, updates []secondary.OrderUpdate) error {
	if m.bulkErr != nil {
		return m.bulkErr
	}
	if m.dropMoves {
		return nil
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	for _, u := range updates {
		rec, ok := m.state.chapters[u.ID]
		if !ok || rec.ActID != actID {
			return secondary.ErrNotFound
		}
		rec.Position = u.Order
		m.state.chapters[u.ID] = rec
	}
	return nil
}

// mockMasterNoteRepository implements secondary.MasterNoteRepository for testing.
type mockMasterNoteRepository struct {
	state     *memJournal
	insertErr error
}

func (m *mockMasterNoteRepository) FindByID(ctx context.Context, id string) (*secondary.MasterNoteRecord, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	rec, ok := m.state.notes[id]
	if !ok {
		return nil, secondary.ErrNotFound
	}
	return &rec, nil
}

func (m *mockMasterNoteRepository) FindAllByCampaign(ctx context.Context, campaignID string) ([]*secondary.MasterNoteRecord, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []*secondary.MasterNoteRecord
	for _, rec := range m.state.notes {
		if rec.CampaignID == campaignID {
			rec := rec
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (m *mockMasterNoteRepository) Insert(ctx context.Context, note *secondary.MasterNoteRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.notes[note.ID] = *note
	return nil
}

func (m *mockMasterNoteRepository) Update(ctx context.Context, note *secondary.MasterNoteRecord) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	rec, ok := m.state.notes[note.ID]
	if !ok {
		return secondary.ErrNotFound
	}
	rec.Content, rec.UpdatedAt = note.Content, note.UpdatedAt
	m.state.notes[note.ID] = rec
	return nil
}

func (m *mockMasterNoteRepository) DeleteByID(ctx context.Context, id string) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	if _, ok := m.state.notes[id]; !ok {
		return secondary.ErrNotFound
	}
	delete(m.state.notes, id)
	return nil
}

// mockJournalLogRepository implements secondary.JournalLogRepository for testing.
type mockJournalLogRepository struct {
	state   *memJournal
	listErr error
}

func (m *mockJournalLogRepository) Create(ctx context.Context, entry *secondary.JournalLogRecord) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	m.state.log = append(m.state.log, *entry)
	return nil
}

func (m *mockJournalLogRepository) List(ctx context.Context, filters secondary.JournalLogFilters) ([]*secondary.JournalLogRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.state.mu.Lock()
	defer m.state.mu.Unlock()
	var out []*secondary.JournalLogRecord
	for i := len(m.state.log) - 1; i >= 0; i-- {
		rec := m.state.log[i]
		if filters.CampaignID != "" && rec.CampaignID != filters.CampaignID {
			continue
		}
		out = append(out, &rec)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

var (
	_ secondary.ActRepository        = (*mockActRepository)(nil)
	_ secondary.ChapterRepository    = (*mockChapterRepository)(nil)
	_ secondary.MasterNoteRepository = (*mockMasterNoteRepository)(nil)
	_ secondary.JournalLogRepository = (*mockJournalLogRepository)(nil)
	_ secondary.Transactor           = (*mockTransactor)(nil)
)

// ============================================================================
// Fixture
// ============================================================================

// journalFixture wires a JournalServiceImpl over the mocks.
type journalFixture struct {
	svc      *JournalServiceImpl
	state    *memJournal
	acts     *mockActRepository
	chapters *mockChapterRepository
	notes    *mockMasterNoteRepository
	tx       *mockTransactor
	clock    *fakeClock
}

func newJournalFixture(t *testing.T) *journalFixture {
	t.Helper()
	return newJournalFixtureWithTimeout(t, 0)
}

func newJournalFixtureWithTimeout(t *testing.T, timeout time.Duration) *journalFixture {
	t.Helper()
	state := newMemJournal()
	f := &journalFixture{
		state:    state,
		acts:     &mockActRepository{state: state},
		chapters: &mockChapterRepository{state: state},
		notes:    &mockMasterNoteRepository{state: state},
		tx:       &mockTransactor{state: state},
		clock:    &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	executor := NewEffectExecutor(f.acts, f.chapters, logger)
	chapterStore := NewChapterStore(f.chapters, f.acts, executor, f.clock.Now)
	actStore := NewActStore(f.acts, chapterStore, executor, f.clock.Now)
	noteStore := NewMasterNoteStore(f.notes, f.clock.Now)
	f.svc = NewJournalService(actStore, chapterStore, noteStore, &mockJournalLogRepository{state: state}, f.tx, logger, timeout)
	return f
}

// fakeClock advances one second on every reading.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// actOrders returns id -> position for a campaign's acts.
func (f *journalFixture) actOrders(campaignID string) map[string]int {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	out := map[string]int{}
	for id, rec := range f.state.acts {
		if rec.CampaignID == campaignID {
			out[id] = rec.Position
		}
	}
	return out
}

// chapterOrders returns id -> position for an act's chapters.
func (f *journalFixture) chapterOrders(actID string) map[string]int {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	out := map[string]int{}
	for id, rec := range f.state.chapters {
		if rec.ActID == actID {
			out[id] = rec.Position
		}
	}
	return out
}

// assertDense fails unless orders are exactly 0..n-1.
func assertDense(t *testing.T, label string, orders map[string]int) {
	t.Helper()
	seen := make([]bool, len(orders))
	for id, o := range orders {
		if o < 0 || o >= len(orders) || seen[o] {
			t.Fatalf("%s: not dense, %s has order %d (all: %v)", label, id, o, orders)
		}
		seen[o] = true
	}
}

var errStoreDown = errors.New("disk I/O error")
