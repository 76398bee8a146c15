// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	apperrors "github.com/example/lorebook/internal/errors"
	"github.com/example/lorebook/internal/ports/primary"
)

const maxColWidth = 60

var (
	okColor    = color.New(color.FgGreen)
	titleColor = color.New(color.Bold, color.Underline)
	faintColor = color.New(color.Faint)
	idColor    = color.New(color.FgHiYellow)
	badColor   = color.New(color.FgRed, color.Bold)
)

// JournalAdapter is a thin adapter that translates CLI operations to JournalService calls.
// It depends only on the JournalService interface, enabling easy testing with mocks.
type JournalAdapter struct {
	service primary.JournalService
	out     io.Writer
}

// NewJournalAdapter creates a new JournalAdapter with the given service.
func NewJournalAdapter(service primary.JournalService, out io.Writer) *JournalAdapter {
	return &JournalAdapter{
		service: service,
		out:     out,
	}
}

// CreateAct appends an act to a campaign.
func (a *JournalAdapter) CreateAct(ctx context.Context, campaignID, title string) error {
	act, err := a.service.CreateAct(ctx, primary.CreateActRequest{CampaignID: campaignID, Title: title})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Created act %s at position %d: %s\n", act.ID, act.Order, act.Title)
	return nil
}

// ListActs prints a campaign's acts in order.
func (a *JournalAdapter) ListActs(ctx context.Context, campaignID string) error {
	acts, err := a.service.ListActs(ctx, campaignID)
	if err != nil {
		return err
	}
	if len(acts) == 0 {
		faintColor.Fprintln(a.out, "No acts found")
		return nil
	}

	tbl := newTable("ORDER", "ID", "TITLE", "CHAPTERS")
	for _, act := range acts {
		tbl.AddRow(act.Order, act.ID, act.Title, len(act.Chapters))
	}
	fmt.Fprintln(a.out, tbl)
	return nil
}

// ShowAct prints one act and its chapters.
func (a *JournalAdapter) ShowAct(ctx context.Context, campaignID, actID string) error {
	act, err := a.service.GetAct(ctx, campaignID, actID)
	if err != nil {
		return err
	}

	titleColor.Fprintf(a.out, "Act %d: %s\n", act.Order, act.Title)
	fmt.Fprintf(a.out, "ID:       %s\n", act.ID)
	fmt.Fprintf(a.out, "Campaign: %s\n", act.CampaignID)
	fmt.Fprintf(a.out, "Updated:  %s\n\n", act.UpdatedAt.Format(time.RFC3339))
	a.printChapters(act.Chapters)
	return nil
}

// UpdateAct renames an act.
func (a *JournalAdapter) UpdateAct(ctx context.Context, campaignID, actID, title string) error {
	act, err := a.service.UpdateAct(ctx, primary.UpdateActRequest{CampaignID: campaignID, ActID: actID, Title: title})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Updated act %s: %s\n", act.ID, act.Title)
	return nil
}

// DeleteAct removes an act and its chapters.
func (a *JournalAdapter) DeleteAct(ctx context.Context, campaignID, actID string) error {
	if err := a.service.DeleteAct(ctx, campaignID, actID); err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Deleted act %s\n", actID)
	return nil
}

// ReorderActs applies a reorder batch given as CLI arguments (see ParsePositions).
func (a *JournalAdapter) ReorderActs(ctx context.Context, campaignID string, args []string) error {
	positions, err := ParsePositions(args)
	if err != nil {
		return err
	}
	acts, err := a.service.ReorderActs(ctx, primary.ReorderActsRequest{CampaignID: campaignID, Positions: positions})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Reordered acts in %s\n", campaignID)
	tbl := newTable("ORDER", "ID", "TITLE")
	for _, act := range acts {
		tbl.AddRow(act.Order, act.ID, act.Title)
	}
	fmt.Fprintln(a.out, tbl)
	return nil
}

// CreateChapter appends a chapter to an act.
func (a *JournalAdapter) CreateChapter(ctx context.Context, campaignID, actID, title, content string) error {
	ch, err := a.service.CreateChapter(ctx, primary.CreateChapterRequest{
		CampaignID: campaignID,
		ActID:      actID,
		Title:      title,
		Content:    content,
	})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Created chapter %s at position %d: %s\n", ch.ID, ch.Order, ch.Title)
	return nil
}

// ListChapters prints an act's chapters in order.
func (a *JournalAdapter) ListChapters(ctx context.Context, campaignID, actID string) error {
	chapters, err := a.service.ListChapters(ctx, campaignID, actID)
	if err != nil {
		return err
	}
	a.printChapters(chapters)
	return nil
}

// UpdateChapter changes a chapter's title and content. A nil content keeps
// the chapter's current content.
func (a *JournalAdapter) UpdateChapter(ctx context.Context, campaignID, actID, chapterID, title string, content *string) error {
	if content == nil {
		current, err := a.findChapter(ctx, campaignID, actID, chapterID)
		if err != nil {
			return err
		}
		content = &current.Content
	}
	ch, err := a.service.UpdateChapter(ctx, primary.UpdateChapterRequest{
		CampaignID: campaignID,
		ActID:      actID,
		ChapterID:  chapterID,
		Title:      title,
		Content:    *content,
	})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Updated chapter %s: %s\n", ch.ID, ch.Title)
	return nil
}

// DeleteChapter removes a chapter.
func (a *JournalAdapter) DeleteChapter(ctx context.Context, campaignID, actID, chapterID string) error {
	if err := a.service.DeleteChapter(ctx, campaignID, actID, chapterID); err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Deleted chapter %s\n", chapterID)
	return nil
}

// ReorderChapters applies a reorder batch to an act's chapters.
func (a *JournalAdapter) ReorderChapters(ctx context.Context, campaignID, actID string, args []string) error {
	positions, err := ParsePositions(args)
	if err != nil {
		return err
	}
	chapters, err := a.service.ReorderChapters(ctx, primary.ReorderChaptersRequest{
		CampaignID: campaignID,
		ActID:      actID,
		Positions:  positions,
	})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Reordered chapters in %s\n", actID)
	a.printChapters(chapters)
	return nil
}

// CreateNote adds a master note.
func (a *JournalAdapter) CreateNote(ctx context.Context, campaignID, content string) error {
	note, err := a.service.CreateMasterNote(ctx, primary.CreateMasterNoteRequest{CampaignID: campaignID, Content: content})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Created note %s\n", note.ID)
	return nil
}

// ListNotes prints a campaign's notes, newest first.
func (a *JournalAdapter) ListNotes(ctx context.Context, campaignID string) error {
	notes, err := a.service.ListMasterNotes(ctx, campaignID)
	if err != nil {
		return err
	}
	a.printNotes(notes)
	return nil
}

// UpdateNote replaces a note's content.
func (a *JournalAdapter) UpdateNote(ctx context.Context, campaignID, noteID, content string) error {
	note, err := a.service.UpdateMasterNote(ctx, primary.UpdateMasterNoteRequest{
		CampaignID: campaignID,
		NoteID:     noteID,
		Content:    content,
	})
	if err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Updated note %s\n", note.ID)
	return nil
}

// DeleteNote removes a note.
func (a *JournalAdapter) DeleteNote(ctx context.Context, campaignID, noteID string) error {
	if err := a.service.DeleteMasterNote(ctx, campaignID, noteID); err != nil {
		return err
	}
	okColor.Fprintf(a.out, "✓ Deleted note %s\n", noteID)
	return nil
}

// ShowJournal prints the whole campaign: acts with chapters, then notes.
func (a *JournalAdapter) ShowJournal(ctx context.Context, campaignID string) error {
	journal, err := a.service.GetJournal(ctx, campaignID)
	if err != nil {
		return err
	}

	titleColor.Fprintf(a.out, "Campaign %s\n", journal.CampaignID)
	if len(journal.Acts) == 0 {
		faintColor.Fprintln(a.out, "  no acts")
	}
	for _, act := range journal.Acts {
		fmt.Fprintf(a.out, "\n%d. %s ", act.Order+1, act.Title)
		idColor.Fprintln(a.out, act.ID)
		for _, ch := range act.Chapters {
			fmt.Fprintf(a.out, "   %d.%d %s ", act.Order+1, ch.Order+1, ch.Title)
			idColor.Fprintln(a.out, ch.ID)
		}
	}

	fmt.Fprintln(a.out)
	titleColor.Fprintln(a.out, "Master notes")
	a.printNotes(journal.MasterNotes)
	return nil
}

// CheckJournal prints the density report. An unhealthy journal is returned
// as an error after the report is printed.
func (a *JournalAdapter) CheckJournal(ctx context.Context, campaignID string) error {
	report, err := a.service.CheckJournal(ctx, campaignID)
	if report == nil {
		return err
	}

	if report.Healthy() {
		okColor.Fprintf(a.out, "✓ %d scopes dense in %s\n", report.Scopes, report.CampaignID)
		return err
	}

	badColor.Fprintf(a.out, "✗ %d of %d scopes have problems in %s\n", len(report.Problems), report.Scopes, report.CampaignID)
	scopes := make([]string, 0, len(report.Problems))
	for scope := range report.Problems {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	for _, scope := range scopes {
		fmt.Fprintf(a.out, "  %s\n", scope)
		for _, p := range report.Problems[scope] {
			fmt.Fprintf(a.out, "    - %s\n", p)
		}
	}
	return err
}

// Log prints journal audit entries, newest first.
func (a *JournalAdapter) Log(ctx context.Context, filters primary.JournalLogFilters) error {
	entries, err := a.service.ListJournalLog(ctx, filters)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		faintColor.Fprintln(a.out, "No journal entries found")
		return nil
	}

	tbl := newTable("TIME", "ACTOR", "ACTION", "ENTITY", "CHANGE")
	for _, e := range entries {
		actor := e.ActorID
		if actor == "" {
			actor = "-"
		}
		tbl.AddRow(e.Timestamp.Local().Format("2006-01-02 15:04:05"), actor, e.Action, e.EntityType+" "+e.EntityID, describeChange(e))
	}
	fmt.Fprintln(a.out, tbl)
	return nil
}

func (a *JournalAdapter) findChapter(ctx context.Context, campaignID, actID, chapterID string) (*primary.Chapter, error) {
	chapters, err := a.service.ListChapters(ctx, campaignID, actID)
	if err != nil {
		return nil, err
	}
	for _, ch := range chapters {
		if ch.ID == chapterID {
			return ch, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("chapter %s not found in act %s", chapterID, actID))
}

func (a *JournalAdapter) printChapters(chapters []*primary.Chapter) {
	if len(chapters) == 0 {
		faintColor.Fprintln(a.out, "No chapters found")
		return
	}
	tbl := newTable("ORDER", "ID", "TITLE")
	for _, ch := range chapters {
		tbl.AddRow(ch.Order, ch.ID, ch.Title)
	}
	fmt.Fprintln(a.out, tbl)
}

func (a *JournalAdapter) printNotes(notes []*primary.MasterNote) {
	if len(notes) == 0 {
		faintColor.Fprintln(a.out, "No notes found")
		return
	}
	tbl := newTable("CREATED", "ID", "CONTENT")
	for _, n := range notes {
		tbl.AddRow(n.CreatedAt.Local().Format("2006-01-02 15:04"), n.ID, firstLine(n.Content))
	}
	fmt.Fprintln(a.out, tbl)
}

func newTable(header ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.MaxColWidth = maxColWidth
	tbl.Wrap = true
	tbl.AddRow(header...)
	return tbl
}

func describeChange(e *primary.JournalLogEntry) string {
	switch {
	case e.Action == "reorder":
		return e.NewValue + " moved"
	case e.FieldName == "":
		return ""
	case e.OldValue == "" && e.NewValue == "":
		return e.FieldName + " changed"
	default:
		return fmt.Sprintf("%s: %q → %q", e.FieldName, e.OldValue, e.NewValue)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// ParsePositions turns CLI arguments into a reorder batch. Each argument is
// either a bare id, whose order is its index, or id=order. The two styles
// cannot be mixed.
func ParsePositions(args []string) ([]primary.Position, error) {
	if len(args) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "at least one id is required")
	}

	positions := make([]primary.Position, 0, len(args))
	explicit := strings.Contains(args[0], "=")
	for i, arg := range args {
		id, orderText, hasOrder := strings.Cut(arg, "=")
		if hasOrder != explicit {
			return nil, apperrors.New(apperrors.CodeValidation, "use either bare ids or id=order for every argument")
		}
		order := i
		if hasOrder {
			n, err := strconv.Atoi(orderText)
			if err != nil {
				return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid order in %q", arg))
			}
			order = n
		}
		positions = append(positions, primary.Position{ID: id, Order: order})
	}
	return positions, nil
}
