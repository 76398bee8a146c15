package app

import (
	"context"

	"github.com/example/lorebook/internal/core/masternote"
	"github.com/example/lorebook/internal/ports/secondary"
)

// MasterNoteStore owns campaign notes. Notes carry no position; listing
// derives the order from creation time.
type MasterNoteStore struct {
	notes secondary.MasterNoteRepository
	now   Clock
}

// NewMasterNoteStore creates a MasterNoteStore.
func NewMasterNoteStore(notes secondary.MasterNoteRepository, now Clock) *MasterNoteStore {
	if now == nil {
		now = utcNow
	}
	return &MasterNoteStore{notes: notes, now: now}
}

// Find returns one note by id.
func (s *MasterNoteStore) Find(ctx context.Context, noteID string) (*secondary.MasterNoteRecord, error) {
	rec, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, translate("find master note "+noteID, err)
	}
	return rec, nil
}

// Create stores a new note.
func (s *MasterNoteStore) Create(ctx context.Context, campaignID, content string) (*secondary.MasterNoteRecord, error) {
	if err := masternote.CanCreateNote(masternote.CreateNoteContext{CampaignID: campaignID, Content: content}).Error(); err != nil {
		return nil, err
	}

	now := s.now()
	record := &secondary.MasterNoteRecord{
		ID:         newID(noteIDPrefix),
		CampaignID: campaignID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.notes.Insert(ctx, record); err != nil {
		return nil, translate("insert master note", err)
	}
	return record, nil
}

// Update replaces a note's content.
func (s *MasterNoteStore) Update(ctx context.Context, campaignID, noteID, content string) (*secondary.MasterNoteRecord, error) {
	record, err := s.lookup(ctx, noteID)
	if err != nil {
		return nil, err
	}

	guard := masternote.CanChangeNote(masternote.ChangeNoteContext{
		NoteID:         noteID,
		NoteExists:     record != nil,
		CampaignID:     campaignID,
		NoteCampaignID: noteCampaignOf(record),
		Content:        content,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	record.Content = content
	record.UpdatedAt = s.now()
	if err := s.notes.Update(ctx, record); err != nil {
		return nil, translate("update master note", err)
	}
	return record, nil
}

// Delete removes a note.
func (s *MasterNoteStore) Delete(ctx context.Context, campaignID, noteID string) error {
	record, err := s.lookup(ctx, noteID)
	if err != nil {
		return err
	}

	guard := masternote.CanChangeNote(masternote.ChangeNoteContext{
		NoteID:         noteID,
		NoteExists:     record != nil,
		CampaignID:     campaignID,
		NoteCampaignID: noteCampaignOf(record),
		Deleting:       true,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	if err := s.notes.DeleteByID(ctx, noteID); err != nil {
		return translate("delete master note", err)
	}
	return nil
}

// List returns a campaign's notes, newest first.
func (s *MasterNoteStore) List(ctx context.Context, campaignID string) ([]*secondary.MasterNoteRecord, error) {
	records, err := s.notes.FindAllByCampaign(ctx, campaignID)
	if err != nil {
		return nil, translate("list master notes", err)
	}
	return masternote.NewestFirst(records), nil
}

func (s *MasterNoteStore) lookup(ctx context.Context, noteID string) (*secondary.MasterNoteRecord, error) {
	rec, err := s.notes.FindByID(ctx, noteID)
	found, err := exists(err)
	if err != nil {
		return nil, translate("find master note "+noteID, err)
	}
	if !found {
		return nil, nil
	}
	return rec, nil
}

func noteCampaignOf(rec *secondary.MasterNoteRecord) string {
	if rec == nil {
		return ""
	}
	return rec.CampaignID
}
