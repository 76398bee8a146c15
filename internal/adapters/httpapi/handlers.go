package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/example/lorebook/internal/ports/primary"
)

// Handler serves the journal routes. It depends only on the JournalService
// interface.
type Handler struct {
	service primary.JournalService
}

// NewHandler creates a new Handler.
func NewHandler(service primary.JournalService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) healthz(c *gin.Context) {
	ok(c, gin.H{"status": "ok"})
}

func (h *Handler) getJournal(c *gin.Context) {
	journal, err := h.service.GetJournal(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, &journalDTO{
		CampaignID:  journal.CampaignID,
		Acts:        toActDTOs(journal.Acts),
		MasterNotes: toNoteDTOs(journal.MasterNotes),
	})
}

// checkJournal answers 200 for a healthy journal. An unhealthy one is a
// CONSISTENCY error that still carries the report as data.
func (h *Handler) checkJournal(c *gin.Context) {
	report, err := h.service.CheckJournal(c.Request.Context(), c.Param("id"))
	if report == nil {
		fail(c, err)
		return
	}
	dto := &checkDTO{
		CampaignID: report.CampaignID,
		Healthy:    report.Healthy(),
		Scopes:     report.Scopes,
		Problems:   report.Problems,
	}
	if err != nil {
		failWith(c, err, dto)
		return
	}
	ok(c, dto)
}

func (h *Handler) listActs(c *gin.Context) {
	acts, err := h.service.ListActs(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toActDTOs(acts))
}

func (h *Handler) createAct(c *gin.Context) {
	var body titleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	act, err := h.service.CreateAct(c.Request.Context(), primary.CreateActRequest{
		CampaignID: c.Param("id"),
		Title:      body.Title,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, toActDTO(act))
}

func (h *Handler) reorderActs(c *gin.Context) {
	var body reorderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	acts, err := h.service.ReorderActs(c.Request.Context(), primary.ReorderActsRequest{
		CampaignID: c.Param("id"),
		Positions:  body.toPositions(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toActDTOs(acts))
}

func (h *Handler) getAct(c *gin.Context) {
	act, err := h.service.GetAct(c.Request.Context(), c.Param("id"), c.Param("actId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toActDTO(act))
}

func (h *Handler) updateAct(c *gin.Context) {
	var body titleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	act, err := h.service.UpdateAct(c.Request.Context(), primary.UpdateActRequest{
		CampaignID: c.Param("id"),
		ActID:      c.Param("actId"),
		Title:      body.Title,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toActDTO(act))
}

func (h *Handler) deleteAct(c *gin.Context) {
	if err := h.service.DeleteAct(c.Request.Context(), c.Param("id"), c.Param("actId")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": c.Param("actId")})
}

func (h *Handler) listChapters(c *gin.Context) {
	chapters, err := h.service.ListChapters(c.Request.Context(), c.Param("id"), c.Param("actId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toChapterDTOs(chapters))
}

func (h *Handler) createChapter(c *gin.Context) {
	var body chapterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ch, err := h.service.CreateChapter(c.Request.Context(), primary.CreateChapterRequest{
		CampaignID: c.Param("id"),
		ActID:      c.Param("actId"),
		Title:      body.Title,
		Content:    body.Content,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, toChapterDTO(ch))
}

func (h *Handler) reorderChapters(c *gin.Context) {
	var body reorderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	chapters, err := h.service.ReorderChapters(c.Request.Context(), primary.ReorderChaptersRequest{
		CampaignID: c.Param("id"),
		ActID:      c.Param("actId"),
		Positions:  body.toPositions(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toChapterDTOs(chapters))
}

func (h *Handler) updateChapter(c *gin.Context) {
	var body chapterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	ch, err := h.service.UpdateChapter(c.Request.Context(), primary.UpdateChapterRequest{
		CampaignID: c.Param("id"),
		ActID:      c.Param("actId"),
		ChapterID:  c.Param("chapterId"),
		Title:      body.Title,
		Content:    body.Content,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toChapterDTO(ch))
}

func (h *Handler) deleteChapter(c *gin.Context) {
	err := h.service.DeleteChapter(c.Request.Context(), c.Param("id"), c.Param("actId"), c.Param("chapterId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": c.Param("chapterId")})
}

func (h *Handler) listNotes(c *gin.Context) {
	notes, err := h.service.ListMasterNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toNoteDTOs(notes))
}

func (h *Handler) createNote(c *gin.Context) {
	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	note, err := h.service.CreateMasterNote(c.Request.Context(), primary.CreateMasterNoteRequest{
		CampaignID: c.Param("id"),
		Content:    body.Content,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, toNoteDTO(note))
}

func (h *Handler) updateNote(c *gin.Context) {
	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	note, err := h.service.UpdateMasterNote(c.Request.Context(), primary.UpdateMasterNoteRequest{
		CampaignID: c.Param("id"),
		NoteID:     c.Param("noteId"),
		Content:    body.Content,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, toNoteDTO(note))
}

func (h *Handler) deleteNote(c *gin.Context) {
	if err := h.service.DeleteMasterNote(c.Request.Context(), c.Param("id"), c.Param("noteId")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"deleted": c.Param("noteId")})
}
