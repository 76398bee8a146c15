package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/example/lorebook/internal/ports/primary"
)

// NewRouter builds the gin engine serving the journal API.
func NewRouter(service primary.JournalService, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(requestContext(), accessLog(logger), recovery(logger))

	h := NewHandler(service)
	r.GET("/healthz", h.healthz)

	campaign := r.Group("/campaigns/:id")
	{
		campaign.GET("/journal", h.getJournal)
		campaign.GET("/journal/check", h.checkJournal)

		campaign.GET("/acts", h.listActs)
		campaign.POST("/acts", h.createAct)
		campaign.PUT("/acts", h.reorderActs)
		campaign.GET("/acts/:actId", h.getAct)
		campaign.PUT("/acts/:actId", h.updateAct)
		campaign.DELETE("/acts/:actId", h.deleteAct)

		campaign.GET("/acts/:actId/chapters", h.listChapters)
		campaign.POST("/acts/:actId/chapters", h.createChapter)
		campaign.POST("/acts/:actId/chapters/reorder", h.reorderChapters)
		campaign.PUT("/acts/:actId/chapters/:chapterId", h.updateChapter)
		campaign.DELETE("/acts/:actId/chapters/:chapterId", h.deleteChapter)

		campaign.GET("/master-notes", h.listNotes)
		campaign.POST("/master-notes", h.createNote)
		campaign.PUT("/master-notes/:noteId", h.updateNote)
		campaign.DELETE("/master-notes/:noteId", h.deleteNote)
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, notFound("route "+c.Request.Method+" "+c.Request.URL.Path))
	})
	return r
}
