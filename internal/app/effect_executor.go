// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/lorebook/internal/core/effects"
	"github.com/example/lorebook/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place position writes happen.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor against the repositories.
type DefaultEffectExecutor struct {
	acts     secondary.ActRepository
	chapters secondary.ChapterRepository
	logger   *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(acts secondary.ActRepository, chapters secondary.ChapterRepository, logger *slog.Logger) *DefaultEffectExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultEffectExecutor{
		acts:     acts,
		chapters: chapters,
		logger:   logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
// The first failure stops execution; the caller's transaction undoes the rest.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case effects.EntityAct:
		switch eff.Operation {
		case effects.OpDelete:
			return e.acts.DeleteByID(ctx, eff.ID)
		case effects.OpReorder:
			return e.acts.BulkUpdateOrder(ctx, eff.Scope, toOrderUpdates(eff.Positions))
		}
	case effects.EntityChapter:
		switch eff.Operation {
		case effects.OpDelete:
			return e.chapters.DeleteByID(ctx, eff.ID)
		case effects.OpReorder:
			return e.chapters.BulkUpdateOrder(ctx, eff.Scope, toOrderUpdates(eff.Positions))
		}
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
	return fmt.Errorf("unknown %s operation: %s", eff.Entity, eff.Operation)
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(eff.Level))

	attrs := make([]any, 0, len(eff.Fields)*2)
	for k, v := range eff.Fields {
		attrs = append(attrs, k, v)
	}
	e.logger.Log(ctx, level, eff.Message, attrs...)
}

func toOrderUpdates(positions []effects.Position) []secondary.OrderUpdate {
	updates := make([]secondary.OrderUpdate, len(positions))
	for i, p := range positions {
		updates[i] = secondary.OrderUpdate{ID: p.ID, Order: p.Order}
	}
	return updates
}
