package app

import (
	"context"
	"strings"

	"github.com/example/lorebook/internal/core/chapter"
	"github.com/example/lorebook/internal/core/effects"
	"github.com/example/lorebook/internal/core/ordering"
	"github.com/example/lorebook/internal/ports/secondary"
)

// ChapterStore owns the ordered chapters of each act. Callers must hold the
// act's scope lock and run inside a transaction.
type ChapterStore struct {
	chapters secondary.ChapterRepository
	acts     secondary.ActRepository
	executor EffectExecutor
	now      Clock
}

// NewChapterStore creates a ChapterStore.
func NewChapterStore(chapters secondary.ChapterRepository, acts secondary.ActRepository, executor EffectExecutor, now Clock) *ChapterStore {
	if now == nil {
		now = utcNow
	}
	return &ChapterStore{chapters: chapters, acts: acts, executor: executor, now: now}
}

// Collection loads an act's chapters as an ordered snapshot.
func (s *ChapterStore) Collection(ctx context.Context, actID string) (ordering.Collection[*secondary.ChapterRecord], error) {
	records, err := s.chapters.FindAllByAct(ctx, actID)
	if err != nil {
		return ordering.Collection[*secondary.ChapterRecord]{}, translate("list chapters", err)
	}
	return ordering.New(actID, records), nil
}

// List returns an act's chapters after checking the act is addressable.
func (s *ChapterStore) List(ctx context.Context, campaignID, actID string) ([]*secondary.ChapterRecord, error) {
	parent, err := s.parent(ctx, campaignID, actID)
	if err != nil {
		return nil, err
	}
	if err := chapter.CanAccessAct(parent).Error(); err != nil {
		return nil, err
	}
	coll, err := s.Collection(ctx, actID)
	if err != nil {
		return nil, err
	}
	return coll.List(), nil
}

// Create appends a chapter at the end of the act.
func (s *ChapterStore) Create(ctx context.Context, campaignID, actID, title, content string) (*secondary.ChapterRecord, error) {
	parent, err := s.parent(ctx, campaignID, actID)
	if err != nil {
		return nil, err
	}
	if err := chapter.CanCreateChapter(chapter.CreateChapterContext{ParentContext: parent, Title: title}).Error(); err != nil {
		return nil, err
	}

	coll, err := s.Collection(ctx, actID)
	if err != nil {
		return nil, err
	}
	plan := coll.PlanAppend()
	if err := s.executor.Execute(ctx, plan.Effects(effects.EntityChapter)); err != nil {
		return nil, translate("compact chapters", err)
	}

	now := s.now()
	record := &secondary.ChapterRecord{
		ID:        newID(chapterIDPrefix),
		ActID:     actID,
		Title:     strings.TrimSpace(title),
		Content:   content,
		Position:  plan.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chapters.Insert(ctx, record); err != nil {
		return nil, translate("insert chapter", err)
	}
	return record, nil
}

// Update changes a chapter's title and content. The chapter stays in its act.
func (s *ChapterStore) Update(ctx context.Context, campaignID, actID, chapterID, title, content string) (*secondary.ChapterRecord, error) {
	parent, err := s.parent(ctx, campaignID, actID)
	if err != nil {
		return nil, err
	}
	record, err := s.lookup(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	guard := chapter.CanUpdateChapter(chapter.UpdateChapterContext{
		ParentContext: parent,
		ChapterID:     chapterID,
		ChapterExists: record != nil,
		ChapterActID:  actOf(record),
		Title:         title,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record.Title = strings.TrimSpace(title)
	record.Content = content
	record.UpdatedAt = s.now()
	if err := s.chapters.Update(ctx, record); err != nil {
		return nil, translate("update chapter", err)
	}
	return record, nil
}

// Delete removes a chapter and compacts its siblings within the act.
func (s *ChapterStore) Delete(ctx context.Context, campaignID, actID, chapterID string) error {
	parent, err := s.parent(ctx, campaignID, actID)
	if err != nil {
		return err
	}
	record, err := s.lookup(ctx, chapterID)
	if err != nil {
		return err
	}

	guard := chapter.CanDeleteChapter(chapter.DeleteChapterContext{
		ParentContext: parent,
		ChapterID:     chapterID,
		ChapterExists: record != nil,
		ChapterActID:  actOf(record),
	})
	if err := guard.Error(); err != nil {
		return err
	}

	coll, err := s.Collection(ctx, actID)
	if err != nil {
		return err
	}
	plan, err := coll.PlanRemove(chapterID)
	if err != nil {
		return err
	}
	if err := s.executor.Execute(ctx, plan.Effects(effects.EntityChapter)); err != nil {
		return translate("delete chapter", err)
	}
	return nil
}

// Reorder applies a reorder batch to the act's chapters. Ids belonging to
// another act are rejected as not found; ownership never changes.
func (s *ChapterStore) Reorder(ctx context.Context, campaignID, actID string, batch []ordering.Position) error {
	parent, err := s.parent(ctx, campaignID, actID)
	if err != nil {
		return err
	}
	if err := chapter.CanAccessAct(parent).Error(); err != nil {
		return err
	}

	coll, err := s.Collection(ctx, actID)
	if err != nil {
		return err
	}
	plan, err := coll.PlanReorder(batch)
	if err != nil {
		return err
	}
	if plan.NoOp() {
		return nil
	}
	if err := s.executor.Execute(ctx, plan.Effects(effects.EntityChapter)); err != nil {
		return translate("reorder chapters", err)
	}
	return nil
}

// DeleteAllForAct clears an act's chapters without renumbering. It is only
// used by the act cascade, which removes the parent in the same transaction.
func (s *ChapterStore) DeleteAllForAct(ctx context.Context, actID string) (int, error) {
	n, err := s.chapters.DeleteAllByAct(ctx, actID)
	if err != nil {
		return 0, translate("delete chapters of act "+actID, err)
	}
	return n, nil
}

// Verify returns a CONSISTENCY error unless the act's chapters are dense.
func (s *ChapterStore) Verify(ctx context.Context, actID string) error {
	coll, err := s.Collection(ctx, actID)
	if err != nil {
		return err
	}
	return ordering.CheckDense(actID, coll.List())
}

func (s *ChapterStore) parent(ctx context.Context, campaignID, actID string) (chapter.ParentContext, error) {
	rec, err := s.acts.FindByID(ctx, actID)
	found, err := exists(err)
	if err != nil {
		return chapter.ParentContext{}, translate("find act "+actID, err)
	}
	p := chapter.ParentContext{ActID: actID, ActExists: found, CampaignID: campaignID}
	if found {
		p.ActCampaignID = rec.CampaignID
	}
	return p, nil
}

func (s *ChapterStore) lookup(ctx context.Context, chapterID string) (*secondary.ChapterRecord, error) {
	rec, err := s.chapters.FindByID(ctx, chapterID)
	found, err := exists(err)
	if err != nil {
		return nil, translate("find chapter "+chapterID, err)
	}
	if !found {
		return nil, nil
	}
	return rec, nil
}

func actOf(rec *secondary.ChapterRecord) string {
	if rec == nil {
		return ""
	}
	return rec.ActID
}
