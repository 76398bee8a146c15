package ordering

import (
	"fmt"
	"strings"

	"github.com/example/lorebook/internal/core/effects"
	apperrors "github.com/example/lorebook/internal/errors"
)

// Plan describes the position changes one operation needs.
type Plan struct {
	Scope   string
	Removed string     // entry deleted by the plan, empty if none
	Order   int        // order reserved for an appended entry, -1 otherwise
	Moves   []Position // siblings whose stored order changes
}

// NoOp reports whether applying the plan would write nothing.
func (p Plan) NoOp() bool {
	return p.Removed == "" && len(p.Moves) == 0
}

// Effects converts the plan into persistence effects for entity.
// The delete always precedes the renumbering.
func (p Plan) Effects(entity string) []effects.Effect {
	var out []effects.Effect
	if p.Removed != "" {
		out = append(out, effects.PersistEffect{
			Entity:    entity,
			Operation: effects.OpDelete,
			Scope:     p.Scope,
			ID:        p.Removed,
		})
	}
	if len(p.Moves) > 0 {
		out = append(out, effects.PersistEffect{
			Entity:    entity,
			Operation: effects.OpReorder,
			Scope:     p.Scope,
			Positions: p.Moves,
		})
		out = append(out, effects.LogEffect{
			Level:   "debug",
			Message: "renumbered siblings",
			Fields:  map[string]any{"entity": entity, "scope": p.Scope, "moved": len(p.Moves)},
		})
	}
	return out
}

// CheckDense returns a CONSISTENCY error unless the entries' stored orders are
// exactly 0..n-1 (in any input order).
func CheckDense[T Entry](scope string, entries []T) error {
	problems := DensityProblems(entries)
	if len(problems) == 0 {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeConsistency,
		fmt.Sprintf("scope %s is not dense: %s", scope, strings.Join(problems, "; ")),
		map[string]string{"scope": scope})
}

// DensityProblems lists every way the entries deviate from 0..n-1.
func DensityProblems[T Entry](entries []T) []string {
	n := len(entries)
	holders := make(map[int][]string, n)
	var problems []string
	for _, e := range entries {
		o := e.EntryOrder()
		if o < 0 || o >= n {
			problems = append(problems, fmt.Sprintf("%s has order %d outside 0..%d", e.EntryID(), o, n-1))
			continue
		}
		holders[o] = append(holders[o], e.EntryID())
	}
	for o := 0; o < n; o++ {
		switch ids := holders[o]; {
		case len(ids) == 0:
			problems = append(problems, fmt.Sprintf("gap at order %d", o))
		case len(ids) > 1:
			problems = append(problems, fmt.Sprintf("order %d shared by %s", o, strings.Join(ids, ", ")))
		}
	}
	return problems
}
