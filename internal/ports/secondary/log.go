package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context and resolve the campaign
// from scopeID, which is the campaign for acts and notes and the act for
// chapters.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, scopeID, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	LogUpdate(ctx context.Context, entityType, scopeID, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, scopeID, entityID string) error

	// LogReorder logs a position rewrite of moved entities within a scope.
	LogReorder(ctx context.Context, entityType, scopeID string, moved int) error
}
