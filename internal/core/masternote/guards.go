// Package masternote contains the pure business logic for master notes.
// Notes have no stored position; their display order is derived from
// creation time at read time.
package masternote

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/example/lorebook/internal/errors"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    apperrors.Code
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperrors.New(r.Code, r.Reason)
}

// CreateNoteContext provides context for note creation guards.
type CreateNoteContext struct {
	CampaignID string
	Content    string
}

// ChangeNoteContext provides context for note update and delete guards.
type ChangeNoteContext struct {
	NoteID         string
	NoteExists     bool
	CampaignID     string // empty to skip the campaign check
	NoteCampaignID string
	Content        string
	Deleting       bool
}

// CanCreateNote evaluates whether a note can be created.
// Rules:
// - Campaign ID must be set
// - Content must not be blank
func CanCreateNote(ctx CreateNoteContext) GuardResult {
	if strings.TrimSpace(ctx.CampaignID) == "" {
		return GuardResult{Code: apperrors.CodeValidation, Reason: "campaign id is required"}
	}
	return checkContent(ctx.Content)
}

// CanChangeNote evaluates whether a note can be updated or deleted.
func CanChangeNote(ctx ChangeNoteContext) GuardResult {
	if !ctx.NoteExists || (ctx.CampaignID != "" && ctx.NoteCampaignID != ctx.CampaignID) {
		return GuardResult{Code: apperrors.CodeNotFound, Reason: fmt.Sprintf("master note %s not found", ctx.NoteID)}
	}
	if ctx.Deleting {
		return GuardResult{Allowed: true}
	}
	return checkContent(ctx.Content)
}

func checkContent(content string) GuardResult {
	if strings.TrimSpace(content) == "" {
		return GuardResult{Code: apperrors.CodeValidation, Reason: "note content is required"}
	}
	return GuardResult{Allowed: true}
}

// Dated is anything with a creation time and a stable id.
type Dated interface {
	NoteID() string
	NoteCreatedAt() time.Time
}

// NewestFirst returns notes sorted by creation time descending. Notes created
// in the same instant are ordered by id so the listing is deterministic.
func NewestFirst[T Dated](notes []T) []T {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if c := b.NoteCreatedAt().Compare(a.NoteCreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.NoteID(), b.NoteID())
	})
	return sorted
}
