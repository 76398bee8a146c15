package app

import (
	"context"

	"github.com/example/lorebook/internal/core/act"
	"github.com/example/lorebook/internal/core/effects"
	"github.com/example/lorebook/internal/core/ordering"
	"github.com/example/lorebook/internal/ports/secondary"
)

// ActStore owns the ordered acts of each campaign. Callers must hold the
// campaign's scope lock and run inside a transaction.
type ActStore struct {
	acts     secondary.ActRepository
	chapters *ChapterStore
	executor EffectExecutor
	now      Clock
}

// NewActStore creates an ActStore.
func NewActStore(acts secondary.ActRepository, chapters *ChapterStore, executor EffectExecutor, now Clock) *ActStore {
	if now == nil {
		now = utcNow
	}
	return &ActStore{acts: acts, chapters: chapters, executor: executor, now: now}
}

// Find returns one act by id.
func (s *ActStore) Find(ctx context.Context, actID string) (*secondary.ActRecord, error) {
	rec, err := s.acts.FindByID(ctx, actID)
	if err != nil {
		return nil, translate("find act "+actID, err)
	}
	return rec, nil
}

// Collection loads a campaign's acts as an ordered snapshot.
func (s *ActStore) Collection(ctx context.Context, campaignID string) (ordering.Collection[*secondary.ActRecord], error) {
	records, err := s.acts.FindAllByCampaign(ctx, campaignID)
	if err != nil {
		return ordering.Collection[*secondary.ActRecord]{}, translate("list acts", err)
	}
	return ordering.New(campaignID, records), nil
}

// Create appends an act at the end of the campaign.
func (s *ActStore) Create(ctx context.Context, campaignID, title string) (*secondary.ActRecord, error) {
	if err := act.CanCreateAct(act.CreateActContext{CampaignID: campaignID, Title: title}).Error(); err != nil {
		return nil, err
	}

	coll, err := s.Collection(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	plan := coll.PlanAppend()
	if err := s.executor.Execute(ctx, plan.Effects(effects.EntityAct)); err != nil {
		return nil, translate("compact acts", err)
	}

	now := s.now()
	record := &secondary.ActRecord{
		ID:         newID(actIDPrefix),
		CampaignID: campaignID,
		Title:      act.NormalizeTitle(title),
		Position:   plan.Order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.acts.Insert(ctx, record); err != nil {
		return nil, translate("insert act", err)
	}
	return record, nil
}

// Get returns an act after checking it belongs to campaignID (when given).
func (s *ActStore) Get(ctx context.Context, campaignID, actID string) (*secondary.ActRecord, error) {
	record, err := s.lookup(ctx, actID)
	if err != nil {
		return nil, err
	}
	guard := act.CanViewAct(act.ActRefContext{
		ActID:         actID,
		ActExists:     record != nil,
		CampaignID:    campaignID,
		ActCampaignID: campaignOf(record),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}
	return record, nil
}

// Update changes an act's title.
func (s *ActStore) Update(ctx context.Context, campaignID, actID, title string) (*secondary.ActRecord, error) {
	record, err := s.lookup(ctx, actID)
	if err != nil {
		return nil, err
	}

	guard := act.CanUpdateAct(act.UpdateActContext{
		ActID:         actID,
		ActExists:     record != nil,
		CampaignID:    campaignID,
		ActCampaignID: campaignOf(record),
		Title:         title,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record.Title = act.NormalizeTitle(title)
	record.UpdatedAt = s.now()
	if err := s.acts.Update(ctx, record); err != nil {
		return nil, translate("update act", err)
	}
	return record, nil
}

// Delete removes every chapter of the act, then the act itself, then
// compacts the remaining acts. Any failure aborts before the act row is
// touched; the surrounding transaction discards the chapter deletions.
func (s *ActStore) Delete(ctx context.Context, campaignID, actID string) (removedChapters int, err error) {
	record, err := s.lookup(ctx, actID)
	if err != nil {
		return 0, err
	}

	guard := act.CanDeleteAct(act.ActRefContext{
		ActID:         actID,
		ActExists:     record != nil,
		CampaignID:    campaignID,
		ActCampaignID: campaignOf(record),
	})
	if err := guard.Error(); err != nil {
		return 0, err
	}

	removedChapters, err = s.chapters.DeleteAllForAct(ctx, actID)
	if err != nil {
		return 0, err
	}

	coll, err := s.Collection(ctx, record.CampaignID)
	if err != nil {
		return 0, err
	}
	plan, err := coll.PlanRemove(actID)
	if err != nil {
		return 0, err
	}
	if err := s.executor.Execute(ctx, plan.Effects(effects.EntityAct)); err != nil {
		return 0, translate("delete act", err)
	}
	return removedChapters, nil
}

// Reorder applies a reorder batch to the campaign's acts.
func (s *ActStore) Reorder(ctx context.Context, campaignID string, batch []ordering.Position) error {
	if err := act.CheckCampaign(campaignID).Error(); err != nil {
		return err
	}

	coll, err := s.Collection(ctx, campaignID)
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
	if err := s.executor.Execute(ctx, plan.Effects(effects.EntityAct)); err != nil {
		return translate("reorder acts", err)
	}
	return nil
}

// Verify returns a CONSISTENCY error unless the campaign's acts are dense.
func (s *ActStore) Verify(ctx context.Context, campaignID string) error {
	coll, err := s.Collection(ctx, campaignID)
	if err != nil {
		return err
	}
	return ordering.CheckDense(campaignID, coll.List())
}

// lookup returns nil without error when the act does not exist.
func (s *ActStore) lookup(ctx context.Context, actID string) (*secondary.ActRecord, error) {
	rec, err := s.acts.FindByID(ctx, actID)
	found, err := exists(err)
	if err != nil {
		return nil, translate("find act "+actID, err)
	}
	if !found {
		return nil, nil
	}
	return rec, nil
}

func campaignOf(rec *secondary.ActRecord) string {
	if rec == nil {
		return ""
	}
	return rec.CampaignID
}
