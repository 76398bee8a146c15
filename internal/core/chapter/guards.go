// Package chapter contains the pure business logic for chapter operations.
package chapter

import (
	"fmt"
	"strings"

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

// ParentContext describes the act a chapter operation addresses.
type ParentContext struct {
	ActID         string
	ActExists     bool
	CampaignID    string // campaign the caller addressed, empty to skip the check
	ActCampaignID string
}

// CreateChapterContext provides context for chapter creation guards.
type CreateChapterContext struct {
	ParentContext
	Title string
}

// UpdateChapterContext provides context for chapter update guards.
type UpdateChapterContext struct {
	ParentContext
	ChapterID     string
	ChapterExists bool
	ChapterActID  string
	Title         string
}

// DeleteChapterContext provides context for chapter deletion guards.
type DeleteChapterContext struct {
	ParentContext
	ChapterID     string
	ChapterExists bool
	ChapterActID  string
}

// CheckTitle validates a chapter title. Only emptiness is checked; chapter
// titles have no length limit. Content is free text and never checked.
func CheckTitle(title string) GuardResult {
	title = strings.TrimSpace(title)
	if title == "" {
		return GuardResult{Code: apperrors.CodeValidation, Reason: "chapter title is required"}
	}
	return GuardResult{Allowed: true}
}

// CanAccessAct evaluates whether the parent act is addressable.
// Rules:
// - Act must exist
// - Act must belong to the addressed campaign, when one is given
func CanAccessAct(ctx ParentContext) GuardResult {
	if !ctx.ActExists {
		return GuardResult{Code: apperrors.CodeNotFound, Reason: fmt.Sprintf("act %s not found", ctx.ActID)}
	}
	if ctx.CampaignID != "" && ctx.ActCampaignID != ctx.CampaignID {
		return GuardResult{
			Code:   apperrors.CodeNotFound,
			Reason: fmt.Sprintf("act %s not found in campaign %s", ctx.ActID, ctx.CampaignID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanCreateChapter evaluates whether a chapter can be appended to an act.
func CanCreateChapter(ctx CreateChapterContext) GuardResult {
	if r := CanAccessAct(ctx.ParentContext); !r.Allowed {
		return r
	}
	return CheckTitle(ctx.Title)
}

// CanUpdateChapter evaluates whether a chapter's title and content can change.
// Rules:
// - Parent act must be addressable
// - Chapter must exist under that act
// - Title must pass CheckTitle
func CanUpdateChapter(ctx UpdateChapterContext) GuardResult {
	if r := CanAccessAct(ctx.ParentContext); !r.Allowed {
		return r
	}
	if r := inAct(ctx.ActID, ctx.ChapterID, ctx.ChapterExists, ctx.ChapterActID); !r.Allowed {
		return r
	}
	return CheckTitle(ctx.Title)
}

// CanDeleteChapter evaluates whether a chapter can be deleted.
func CanDeleteChapter(ctx DeleteChapterContext) GuardResult {
	if r := CanAccessAct(ctx.ParentContext); !r.Allowed {
		return r
	}
	return inAct(ctx.ActID, ctx.ChapterID, ctx.ChapterExists, ctx.ChapterActID)
}

func inAct(actID, chapterID string, exists bool, chapterActID string) GuardResult {
	if !exists || chapterActID != actID {
		return GuardResult{
			Code:   apperrors.CodeNotFound,
			Reason: fmt.Sprintf("chapter %s not found in act %s", chapterID, actID),
		}
	}
	return GuardResult{Allowed: true}
}
