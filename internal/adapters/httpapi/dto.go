package httpapi

import (
	"time"

	"github.com/example/lorebook/internal/ports/primary"
)

type titleBody struct {
	Title string `json:"title"`
}

type chapterBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type noteBody struct {
	Content string `json:"content"`
}

type positionBody struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

type reorderBody struct {
	Positions []positionBody `json:"positions"`
}

func (b reorderBody) toPositions() []primary.Position {
	out := make([]primary.Position, len(b.Positions))
	for i, p := range b.Positions {
		out[i] = primary.Position{ID: p.ID, Order: p.Order}
	}
	return out
}

type actDTO struct {
	ID         string        `json:"id"`
	CampaignID string        `json:"campaign_id"`
	Title      string        `json:"title"`
	Order      int           `json:"order"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Chapters   []*chapterDTO `json:"chapters"`
}

type chapterDTO struct {
	ID        string    `json:"id"`
	ActID     string    `json:"act_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type noteDTO struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type journalDTO struct {
	CampaignID  string     `json:"campaign_id"`
	Acts        []*actDTO  `json:"acts"`
	MasterNotes []*noteDTO `json:"master_notes"`
}

type checkDTO struct {
	CampaignID string              `json:"campaign_id"`
	Healthy    bool                `json:"healthy"`
	Scopes     int                 `json:"scopes"`
	Problems   map[string][]string `json:"problems,omitempty"`
}

func toActDTO(a *primary.Act) *actDTO {
	return &actDTO{
		ID:         a.ID,
		CampaignID: a.CampaignID,
		Title:      a.Title,
		Order:      a.Order,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
		Chapters:   toChapterDTOs(a.Chapters),
	}
}

func toActDTOs(acts []*primary.Act) []*actDTO {
	out := make([]*actDTO, len(acts))
	for i, a := range acts {
		out[i] = toActDTO(a)
	}
	return out
}

func toChapterDTO(ch *primary.Chapter) *chapterDTO {
	return &chapterDTO{
		ID:        ch.ID,
		ActID:     ch.ActID,
		Title:     ch.Title,
		Content:   ch.Content,
		Order:     ch.Order,
		CreatedAt: ch.CreatedAt,
		UpdatedAt: ch.UpdatedAt,
	}
}

func toChapterDTOs(chapters []*primary.Chapter) []*chapterDTO {
	out := make([]*chapterDTO, len(chapters))
	for i, ch := range chapters {
		out[i] = toChapterDTO(ch)
	}
	return out
}

func toNoteDTO(n *primary.MasterNote) *noteDTO {
	return &noteDTO{
		ID:         n.ID,
		CampaignID: n.CampaignID,
		Content:    n.Content,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func toNoteDTOs(notes []*primary.MasterNote) []*noteDTO {
	out := make([]*noteDTO, len(notes))
	for i, n := range notes {
		out[i] = toNoteDTO(n)
	}
	return out
}
