package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/lorebook/internal/core/act"
	"github.com/example/lorebook/internal/core/ordering"
	apperrors "github.com/example/lorebook/internal/errors"
	"github.com/example/lorebook/internal/ports/primary"
	"github.com/example/lorebook/internal/ports/secondary"
)

// JournalServiceImpl implements the JournalService interface.
//
// Every mutation runs under its scope locks (campaign before act), with a
// deadline, inside one transaction that also re-checks density before it
// commits. A failed check rolls the whole operation back.
type JournalServiceImpl struct {
	acts     *ActStore
	chapters *ChapterStore
	notes    *MasterNoteStore
	logRepo  secondary.JournalLogRepository
	tx       secondary.Transactor
	locks    *ScopeLocks
	logger   *slog.Logger
	timeout  time.Duration
}

// NewJournalService creates a new JournalService with injected dependencies.
// A zero timeout disables the per-operation deadline.
func NewJournalService(
	acts *ActStore,
	chapters *ChapterStore,
	notes *MasterNoteStore,
	logRepo secondary.JournalLogRepository,
	tx secondary.Transactor,
	logger *slog.Logger,
	timeout time.Duration,
) *JournalServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalServiceImpl{
		acts:     acts,
		chapters: chapters,
		notes:    notes,
		logRepo:  logRepo,
		tx:       tx,
		locks:    NewScopeLocks(),
		logger:   logger,
		timeout:  timeout,
	}
}

// CreateAct appends a new act to the end of a campaign.
func (s *JournalServiceImpl) CreateAct(ctx context.Context, req primary.CreateActRequest) (*primary.Act, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var rec *secondary.ActRecord
	err := s.mutate(ctx, "create act", []string{campaignScope(req.CampaignID)}, func(ctx context.Context) error {
		var err error
		if rec, err = s.acts.Create(ctx, req.CampaignID, req.Title); err != nil {
			return err
		}
		return s.acts.Verify(ctx, req.CampaignID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "act created", "campaign_id", rec.CampaignID, "act_id", rec.ID, "order", rec.Position)
	return toAct(rec, nil), nil
}

// GetAct retrieves an act with its chapters.
func (s *JournalServiceImpl) GetAct(ctx context.Context, campaignID, actID string) (*primary.Act, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var out *primary.Act
	err := s.read(ctx, "get act", func(ctx context.Context) error {
		rec, err := s.acts.Get(ctx, campaignID, actID)
		if err != nil {
			return err
		}
		coll, err := s.chapters.Collection(ctx, rec.ID)
		if err != nil {
			return err
		}
		out = toAct(rec, coll.List())
		return nil
	})
	return out, err
}

// ListActs lists a campaign's acts with their chapters.
func (s *JournalServiceImpl) ListActs(ctx context.Context, campaignID string) ([]*primary.Act, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var out []*primary.Act
	err := s.read(ctx, "list acts", func(ctx context.Context) error {
		var err error
		out, err = s.loadActs(ctx, campaignID)
		return err
	})
	return out, err
}

// UpdateAct changes an act's title.
func (s *JournalServiceImpl) UpdateAct(ctx context.Context, req primary.UpdateActRequest) (*primary.Act, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	campaignID, err := s.actCampaign(ctx, req.CampaignID, req.ActID)
	if err != nil {
		return nil, s.fail(ctx, "update act", err)
	}

	var rec *secondary.ActRecord
	var chapters []*secondary.ChapterRecord
	err = s.mutate(ctx, "update act", []string{campaignScope(campaignID)}, func(ctx context.Context) error {
		var err error
		if rec, err = s.acts.Update(ctx, campaignID, req.ActID, req.Title); err != nil {
			return err
		}
		coll, err := s.chapters.Collection(ctx, rec.ID)
		chapters = coll.List()
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "act updated", "campaign_id", campaignID, "act_id", rec.ID)
	return toAct(rec, chapters), nil
}

// DeleteAct removes an act with all of its chapters and compacts the rest.
func (s *JournalServiceImpl) DeleteAct(ctx context.Context, campaignID, actID string) error {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	campaignID, err := s.actCampaign(ctx, campaignID, actID)
	if err != nil {
		return s.fail(ctx, "delete act", err)
	}

	var removed int
	err = s.mutate(ctx, "delete act", []string{campaignScope(campaignID), actScope(actID)}, func(ctx context.Context) error {
		var err error
		if removed, err = s.acts.Delete(ctx, campaignID, actID); err != nil {
			return err
		}
		return s.acts.Verify(ctx, campaignID)
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "act deleted", "campaign_id", campaignID, "act_id", actID, "chapters_removed", removed)
	return nil
}

// ReorderActs applies a reorder batch to a campaign's acts.
func (s *JournalServiceImpl) ReorderActs(ctx context.Context, req primary.ReorderActsRequest) ([]*primary.Act, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var out []*primary.Act
	err := s.mutate(ctx, "reorder acts", []string{campaignScope(req.CampaignID)}, func(ctx context.Context) error {
		if err := s.acts.Reorder(ctx, req.CampaignID, toPositions(req.Positions)); err != nil {
			return err
		}
		if err := s.acts.Verify(ctx, req.CampaignID); err != nil {
			return err
		}
		var err error
		out, err = s.loadActs(ctx, req.CampaignID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "acts reordered", "campaign_id", req.CampaignID, "batch", len(req.Positions))
	return out, nil
}

// CreateChapter appends a new chapter to the end of an act.
func (s *JournalServiceImpl) CreateChapter(ctx context.Context, req primary.CreateChapterRequest) (*primary.Chapter, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var rec *secondary.ChapterRecord
	err := s.mutate(ctx, "create chapter", []string{actScope(req.ActID)}, func(ctx context.Context) error {
		var err error
		if rec, err = s.chapters.Create(ctx, req.CampaignID, req.ActID, req.Title, req.Content); err != nil {
			return err
		}
		return s.chapters.Verify(ctx, req.ActID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "chapter created", "act_id", rec.ActID, "chapter_id", rec.ID, "order", rec.Position)
	return toChapter(rec), nil
}

// ListChapters lists an act's chapters by position.
func (s *JournalServiceImpl) ListChapters(ctx context.Context, campaignID, actID string) ([]*primary.Chapter, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var out []*primary.Chapter
	err := s.read(ctx, "list chapters", func(ctx context.Context) error {
		records, err := s.chapters.List(ctx, campaignID, actID)
		out = toChapters(records)
		return err
	})
	return out, err
}

// UpdateChapter changes a chapter's title and content.
func (s *JournalServiceImpl) UpdateChapter(ctx context.Context, req primary.UpdateChapterRequest) (*primary.Chapter, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var rec *secondary.ChapterRecord
	err := s.mutate(ctx, "update chapter", []string{actScope(req.ActID)}, func(ctx context.Context) error {
		var err error
		rec, err = s.chapters.Update(ctx, req.CampaignID, req.ActID, req.ChapterID, req.Title, req.Content)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "chapter updated", "act_id", rec.ActID, "chapter_id", rec.ID)
	return toChapter(rec), nil
}

// DeleteChapter removes a chapter and compacts its siblings.
func (s *JournalServiceImpl) DeleteChapter(ctx context.Context, campaignID, actID, chapterID string) error {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	err := s.mutate(ctx, "delete chapter", []string{actScope(actID)}, func(ctx context.Context) error {
		if err := s.chapters.Delete(ctx, campaignID, actID, chapterID); err != nil {
			return err
		}
		return s.chapters.Verify(ctx, actID)
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "chapter deleted", "act_id", actID, "chapter_id", chapterID)
	return nil
}

// ReorderChapters applies a reorder batch to an act's chapters.
func (s *JournalServiceImpl) ReorderChapters(ctx context.Context, req primary.ReorderChaptersRequest) ([]*primary.Chapter, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var out []*primary.Chapter
	err := s.mutate(ctx, "reorder chapters", []string{actScope(req.ActID)}, func(ctx context.Context) error {
		if err := s.chapters.Reorder(ctx, req.CampaignID, req.ActID, toPositions(req.Positions)); err != nil {
			return err
		}
		coll, err := s.chapters.Collection(ctx, req.ActID)
		if err != nil {
			return err
		}
		if err := ordering.CheckDense(req.ActID, coll.List()); err != nil {
			return err
		}
		out = toChapters(coll.List())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "chapters reordered", "act_id", req.ActID, "batch", len(req.Positions))
	return out, nil
}

// CreateMasterNote creates a campaign note.
func (s *JournalServiceImpl) CreateMasterNote(ctx context.Context, req primary.CreateMasterNoteRequest) (*primary.MasterNote, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	var rec *secondary.MasterNoteRecord
	err := s.mutate(ctx, "create master note", []string{notesScope(req.CampaignID)}, func(ctx context.Context) error {
		var err error
		rec, err = s.notes.Create(ctx, req.CampaignID, req.Content)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "master note created", "campaign_id", rec.CampaignID, "note_id", rec.ID)
	return toMasterNote(rec), nil
}

// ListMasterNotes lists a campaign's notes, newest first.
func (s *JournalServiceImpl) ListMasterNotes(ctx context.Context, campaignID string) ([]*primary.MasterNote, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	if err := act.CheckCampaign(campaignID).Error(); err != nil {
		return nil, s.fail(ctx, "list master notes", err)
	}

	var out []*primary.MasterNote
	err := s.read(ctx, "list master notes", func(ctx context.Context) error {
		records, err := s.notes.List(ctx, campaignID)
		out = toMasterNotes(records)
		return err
	})
	return out, err
}

// UpdateMasterNote changes a note's content.
func (s *JournalServiceImpl) UpdateMasterNote(ctx context.Context, req primary.UpdateMasterNoteRequest) (*primary.MasterNote, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	campaignID, err := s.noteCampaign(ctx, req.CampaignID, req.NoteID)
	if err != nil {
		return nil, s.fail(ctx, "update master note", err)
	}

	var rec *secondary.MasterNoteRecord
	err = s.mutate(ctx, "update master note", []string{notesScope(campaignID)}, func(ctx context.Context) error {
		var err error
		rec, err = s.notes.Update(ctx, campaignID, req.NoteID, req.Content)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "master note updated", "campaign_id", campaignID, "note_id", rec.ID)
	return toMasterNote(rec), nil
}

// DeleteMasterNote removes a note.
func (s *JournalServiceImpl) DeleteMasterNote(ctx context.Context, campaignID, noteID string) error {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	campaignID, err := s.noteCampaign(ctx, campaignID, noteID)
	if err != nil {
		return s.fail(ctx, "delete master note", err)
	}

	err = s.mutate(ctx, "delete master note", []string{notesScope(campaignID)}, func(ctx context.Context) error {
		return s.notes.Delete(ctx, campaignID, noteID)
	})
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "master note deleted", "campaign_id", campaignID, "note_id", noteID)
	return nil
}

// GetJournal loads acts (with chapters) and notes concurrently.
func (s *JournalServiceImpl) GetJournal(ctx context.Context, campaignID string) (*primary.Journal, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	if err := act.CheckCampaign(campaignID).Error(); err != nil {
		return nil, s.fail(ctx, "get journal", err)
	}

	journal := &primary.Journal{CampaignID: campaignID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.tx.WithinTx(gctx, func(ctx context.Context) error {
			var err error
			journal.Acts, err = s.loadActs(ctx, campaignID)
			return err
		})
	})
	g.Go(func() error {
		return s.tx.WithinTx(gctx, func(ctx context.Context) error {
			records, err := s.notes.List(ctx, campaignID)
			journal.MasterNotes = toMasterNotes(records)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, "get journal", err)
	}
	return journal, nil
}

// CheckJournal re-validates density for the campaign's acts and for the
// chapters of every act.
func (s *JournalServiceImpl) CheckJournal(ctx context.Context, campaignID string) (*primary.JournalCheck, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	if err := act.CheckCampaign(campaignID).Error(); err != nil {
		return nil, s.fail(ctx, "check journal", err)
	}

	report := &primary.JournalCheck{CampaignID: campaignID, Problems: map[string][]string{}}
	err := s.read(ctx, "check journal", func(ctx context.Context) error {
		acts, err := s.acts.Collection(ctx, campaignID)
		if err != nil {
			return err
		}
		report.Scopes++
		if problems := ordering.DensityProblems(acts.List()); len(problems) > 0 {
			report.Problems[campaignScope(campaignID)] = problems
		}
		for _, a := range acts.List() {
			chapters, err := s.chapters.Collection(ctx, a.ID)
			if err != nil {
				return err
			}
			report.Scopes++
			if problems := ordering.DensityProblems(chapters.List()); len(problems) > 0 {
				report.Problems[actScope(a.ID)] = problems
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.Healthy() {
		err := apperrors.WithMetadata(apperrors.CodeConsistency, "journal positions are not dense",
			map[string]string{"campaign_id": campaignID})
		return report, s.fail(ctx, "check journal", err)
	}
	return report, nil
}

// ListJournalLog lists audit entries, newest first.
func (s *JournalServiceImpl) ListJournalLog(ctx context.Context, filters primary.JournalLogFilters) ([]*primary.JournalLogEntry, error) {
	ctx, cancel := s.begin(ctx)
	defer cancel()

	records, err := s.logRepo.List(ctx, secondary.JournalLogFilters{
		CampaignID: filters.CampaignID,
		EntityType: filters.EntityType,
		EntityID:   filters.EntityID,
		Limit:      filters.Limit,
	})
	if err != nil {
		return nil, s.fail(ctx, "list journal log", err)
	}

	entries := make([]*primary.JournalLogEntry, len(records))
	for i, r := range records {
		entries[i] = toLogEntry(r)
	}
	return entries, nil
}

// begin applies the per-operation deadline.
func (s *JournalServiceImpl) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// mutate runs fn under the given scope locks inside one transaction.
func (s *JournalServiceImpl) mutate(ctx context.Context, op string, scopes []string, fn func(ctx context.Context) error) error {
	unlock, err := s.locks.Lock(ctx, scopes...)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	defer unlock()

	if err := s.tx.WithinTx(ctx, fn); err != nil {
		return s.fail(ctx, op, err)
	}
	return nil
}

// read runs fn inside a transaction so multi-query reads see one snapshot.
func (s *JournalServiceImpl) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := s.tx.WithinTx(ctx, fn); err != nil {
		return s.fail(ctx, op, err)
	}
	return nil
}

// fail translates err and logs it at a level matching its code.
func (s *JournalServiceImpl) fail(ctx context.Context, op string, err error) error {
	err = translate(op, err)
	switch apperrors.CodeOf(err) {
	case apperrors.CodeTransient:
		s.logger.WarnContext(ctx, op+" failed", "error", err)
	case apperrors.CodeConsistency:
		s.logger.ErrorContext(ctx, op+" violated journal consistency", "error", err)
	default:
		s.logger.DebugContext(ctx, op+" rejected", "error", err)
	}
	return err
}

// loadActs returns the campaign's acts, each with its chapters.
func (s *JournalServiceImpl) loadActs(ctx context.Context, campaignID string) ([]*primary.Act, error) {
	if err := act.CheckCampaign(campaignID).Error(); err != nil {
		return nil, err
	}
	acts, err := s.acts.Collection(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Act, 0, acts.Len())
	for _, a := range acts.List() {
		chapters, err := s.chapters.Collection(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toAct(a, chapters.List()))
	}
	return out, nil
}

// actCampaign returns campaignID, or the act's own campaign when it is empty.
func (s *JournalServiceImpl) actCampaign(ctx context.Context, campaignID, actID string) (string, error) {
	if campaignID != "" {
		return campaignID, nil
	}
	rec, err := s.acts.Find(ctx, actID)
	if err != nil {
		return "", err
	}
	return rec.CampaignID, nil
}

// noteCampaign returns campaignID, or the note's own campaign when it is empty.
func (s *JournalServiceImpl) noteCampaign(ctx context.Context, campaignID, noteID string) (string, error) {
	if campaignID != "" {
		return campaignID, nil
	}
	rec, err := s.notes.Find(ctx, noteID)
	if err != nil {
		return "", err
	}
	return rec.CampaignID, nil
}

func toPositions(in []primary.Position) []ordering.Position {
	out := make([]ordering.Position, len(in))
	for i, p := range in {
		out[i] = ordering.Position{ID: p.ID, Order: p.Order}
	}
	return out
}

func toAct(r *secondary.ActRecord, chapters []*secondary.ChapterRecord) *primary.Act {
	return &primary.Act{
		ID:         r.ID,
		CampaignID: r.CampaignID,
		Title:      r.Title,
		Order:      r.Position,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Chapters:   toChapters(chapters),
	}
}

func toChapter(r *secondary.ChapterRecord) *primary.Chapter {
	return &primary.Chapter{
		ID:        r.ID,
		ActID:     r.ActID,
		Title:     r.Title,
		Content:   r.Content,
		Order:     r.Position,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toChapters(records []*secondary.ChapterRecord) []*primary.Chapter {
	out := make([]*primary.Chapter, len(records))
	for i, r := range records {
		out[i] = toChapter(r)
	}
	return out
}

func toMasterNote(r *secondary.MasterNoteRecord) *primary.MasterNote {
	return &primary.MasterNote{
		ID:         r.ID,
		CampaignID: r.CampaignID,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toMasterNotes(records []*secondary.MasterNoteRecord) []*primary.MasterNote {
	out := make([]*primary.MasterNote, len(records))
	for i, r := range records {
		out[i] = toMasterNote(r)
	}
	return out
}

func toLogEntry(r *secondary.JournalLogRecord) *primary.JournalLogEntry {
	return &primary.JournalLogEntry{
		ID:         r.ID,
		CampaignID: r.CampaignID,
		Timestamp:  r.Timestamp,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
	}
}

// Ensure JournalServiceImpl implements the interface
var _ primary.JournalService = (*JournalServiceImpl)(nil)
