package sqlite

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/example/lorebook/internal/ctxutil"
	"github.com/example/lorebook/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using JournalLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.JournalLogRepository
	acts    secondary.ActRepository
	logger  *slog.Logger
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
// acts resolves the campaign of chapter entries; it must not itself be wired
// to a log writer.
func NewLogWriterAdapter(logRepo secondary.JournalLogRepository, acts secondary.ActRepository, logger *slog.Logger) *LogWriterAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogWriterAdapter{
		logRepo: logRepo,
		acts:    acts,
		logger:  logger,
	}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, scopeID, entityID string) error {
	return w.writeLog(ctx, entityType, scopeID, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, scopeID, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, entityType, scopeID, entityID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, entityType, scopeID, entityID string) error {
	return w.writeLog(ctx, entityType, scopeID, entityID, "delete", "", "", "")
}

// LogReorder logs a position rewrite. The entity is the scope itself.
func (w *LogWriterAdapter) LogReorder(ctx context.Context, entityType, scopeID string, moved int) error {
	return w.writeLog(ctx, entityType, scopeID, scopeID, "reorder", "position", "", strconv.Itoa(moved))
}

// writeLog writes a log entry with common logic.
func (w *LogWriterAdapter) writeLog(ctx context.Context, entityType, scopeID, entityID, action, fieldName, oldValue, newValue string) error {
	campaignID := w.resolveCampaign(ctx, entityType, scopeID)
	if campaignID == "" {
		// Parent already gone; nothing to attribute the entry to.
		return nil
	}

	record := &secondary.JournalLogRecord{
		ID:         "log-" + uuid.NewString(),
		CampaignID: campaignID,
		Timestamp:  time.Now().UTC(),
		ActorID:    ctxutil.ActorFromContext(ctx),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	}

	if err := w.logRepo.Create(ctx, record); err != nil {
		w.logger.WarnContext(ctx, "journal log write failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return err
	}
	return nil
}

// resolveCampaign maps a scope to its campaign. Chapters are scoped by act,
// everything else by campaign.
func (w *LogWriterAdapter) resolveCampaign(ctx context.Context, entityType, scopeID string) string {
	if entityType != "chapter" {
		return scopeID
	}
	if w.acts == nil {
		return ""
	}
	act, err := w.acts.FindByID(ctx, scopeID)
	if err != nil || act == nil {
		return ""
	}
	return act.CampaignID
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
