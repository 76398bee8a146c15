// Package act contains the pure business logic for act operations.
// Guards are pure functions that evaluate preconditions without side effects.
package act

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/example/lorebook/internal/errors"
)

// MaxTitleLength is the longest act title accepted, in characters.
const MaxTitleLength = 200

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

// CreateActContext provides context for act creation guards.
type CreateActContext struct {
	CampaignID string
	Title      string
}

// UpdateActContext provides context for act update guards.
type UpdateActContext struct {
	ActID         string
	ActExists     bool
	CampaignID    string // campaign the caller addressed, empty to skip the check
	ActCampaignID string // campaign the act belongs to
	Title         string
}

// ActRefContext provides context for guards that only need the act to be
// addressable (read, delete).
type ActRefContext struct {
	ActID         string
	ActExists     bool
	CampaignID    string
	ActCampaignID string
}

// NormalizeTitle trims surrounding whitespace.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// CheckTitle validates an act title.
// Rules:
// - Title must not be blank
// - Title must be at most MaxTitleLength characters
func CheckTitle(title string) GuardResult {
	title = NormalizeTitle(title)
	if title == "" {
		return GuardResult{Code: apperrors.CodeValidation, Reason: "act title is required"}
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return GuardResult{
			Code:   apperrors.CodeValidation,
			Reason: fmt.Sprintf("act title must be at most %d characters (got %d)", MaxTitleLength, n),
		}
	}
	return GuardResult{Allowed: true}
}

// CanCreateAct evaluates whether an act can be created.
// Rules:
// - Campaign ID must be set
// - Title must pass CheckTitle
func CanCreateAct(ctx CreateActContext) GuardResult {
	if r := CheckCampaign(ctx.CampaignID); !r.Allowed {
		return r
	}
	return CheckTitle(ctx.Title)
}

// CheckCampaign rejects a blank campaign id.
func CheckCampaign(campaignID string) GuardResult {
	if strings.TrimSpace(campaignID) == "" {
		return GuardResult{Code: apperrors.CodeValidation, Reason: "campaign id is required"}
	}
	return GuardResult{Allowed: true}
}

// CanUpdateAct evaluates whether an act's title can be changed.
// Rules:
// - Act must exist in the addressed campaign
// - Title must pass CheckTitle
func CanUpdateAct(ctx UpdateActContext) GuardResult {
	if r := inCampaign(ctx.ActID, ctx.ActExists, ctx.CampaignID, ctx.ActCampaignID); !r.Allowed {
		return r
	}
	return CheckTitle(ctx.Title)
}

// CanViewAct evaluates whether an act can be read.
func CanViewAct(ctx ActRefContext) GuardResult {
	return inCampaign(ctx.ActID, ctx.ActExists, ctx.CampaignID, ctx.ActCampaignID)
}

// CanDeleteAct evaluates whether an act can be deleted.
// Rules:
// - Act must exist in the addressed campaign
func CanDeleteAct(ctx ActRefContext) GuardResult {
	return inCampaign(ctx.ActID, ctx.ActExists, ctx.CampaignID, ctx.ActCampaignID)
}

// inCampaign treats an act from another campaign exactly like a missing one,
// so callers cannot probe ids across campaigns.
func inCampaign(actID string, exists bool, campaignID, actCampaignID string) GuardResult {
	if !exists {
		return GuardResult{Code: apperrors.CodeNotFound, Reason: fmt.Sprintf("act %s not found", actID)}
	}
	if campaignID != "" && actCampaignID != campaignID {
		return GuardResult{
			Code:   apperrors.CodeNotFound,
			Reason: fmt.Sprintf("act %s not found in campaign %s", actID, campaignID),
		}
	}
	return GuardResult{Allowed: true}
}
