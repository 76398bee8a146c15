// Package ordering contains the pure position arithmetic shared by every
// ordered sibling set in the journal (Acts within a campaign, Chapters within
// an Act).
//
// A Collection is a snapshot of one scope. Its Plan* methods never mutate
// anything; they return a Plan describing which entries must move, which the
// application shell turns into persistence effects inside one transaction.
//
// Stored positions may contain gaps (a crash between writes, a hand-edited
// database). Every plan is computed against the dense rank of each entry, so
// applying any plan also heals whatever gaps were present.
package ordering

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/example/lorebook/internal/core/effects"
	apperrors "github.com/example/lorebook/internal/errors"
)

// Entry is anything positioned inside a parent scope.
type Entry interface {
	EntryID() string
	EntryOrder() int
}

// Position is a requested or planned (id, order) pair.
type Position = effects.Position

// Collection is an immutable, sorted snapshot of one scope's siblings.
type Collection[T Entry] struct {
	scope   string
	entries []T
}

// New sorts entries by stored order (ties broken by ID) and wraps them.
func New[T Entry](scope string, entries []T) Collection[T] {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if c := cmp.Compare(a.EntryOrder(), b.EntryOrder()); c != 0 {
			return c
		}
		return cmp.Compare(a.EntryID(), b.EntryID())
	})
	return Collection[T]{scope: scope, entries: sorted}
}

// Scope returns the parent ID the collection was built for.
func (c Collection[T]) Scope() string { return c.scope }

// Len returns the number of siblings.
func (c Collection[T]) Len() int { return len(c.entries) }

// List returns the siblings in ascending order. The slice is a fresh copy.
func (c Collection[T]) List() []T { return slices.Clone(c.entries) }

// Find returns the entry with the given ID.
func (c Collection[T]) Find(id string) (T, bool) {
	for _, e := range c.entries {
		if e.EntryID() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// NextOrder is the order an appended entry receives: max+1 over the dense
// ranks, or 0 for an empty scope.
func (c Collection[T]) NextOrder() int { return len(c.entries) }

// Dense reports whether stored orders are exactly 0..n-1.
func (c Collection[T]) Dense() bool {
	for i, e := range c.entries {
		if e.EntryOrder() != i {
			return false
		}
	}
	return true
}

// PlanAppend reserves NextOrder for a new entry. If the scope was not dense
// the plan also renumbers the existing siblings.
func (c Collection[T]) PlanAppend() Plan {
	return Plan{
		Scope: c.scope,
		Order: c.NextOrder(),
		Moves: movesFor(c.entries),
	}
}

// PlanRemove removes id and shifts every later sibling down so the scope
// stays dense. Removing the last entry moves nothing.
func (c Collection[T]) PlanRemove(id string) (Plan, error) {
	idx := slices.IndexFunc(c.entries, func(e T) bool { return e.EntryID() == id })
	if idx < 0 {
		return Plan{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("%s not found in scope %s", id, c.scope),
			map[string]string{"id": id, "scope": c.scope})
	}

	remaining := slices.Delete(slices.Clone(c.entries), idx, idx+1)
	return Plan{
		Scope:   c.scope,
		Removed: id,
		Order:   -1,
		Moves:   movesFor(remaining),
	}, nil
}

// PlanReorder validates a batch and computes the resulting moves.
//
// The batch names k distinct siblings with target orders forming exactly
// 0..k-1. When k equals the scope size the orders are absolute. For a partial
// batch the named siblings are permuted among the positions they already
// occupy and every other sibling keeps its place. Validation is complete
// before any move is planned, so a rejected batch changes nothing.
func (c Collection[T]) PlanReorder(batch []Position) (Plan, error) {
	if len(batch) == 0 {
		return Plan{}, apperrors.New(apperrors.CodeValidation, "reorder batch is empty")
	}

	rank := make(map[string]int, len(c.entries))
	for i, e := range c.entries {
		rank[e.EntryID()] = i
	}

	seenID := make(map[string]bool, len(batch))
	seenOrder := make(map[int]string, len(batch))
	var unknown []string
	for _, p := range batch {
		if p.ID == "" {
			return Plan{}, apperrors.New(apperrors.CodeValidation, "reorder entry is missing an id")
		}
		if seenID[p.ID] {
			return Plan{}, apperrors.WithMetadata(apperrors.CodeValidation,
				fmt.Sprintf("%s appears more than once in reorder batch", p.ID),
				map[string]string{"id": p.ID})
		}
		seenID[p.ID] = true

		if other, dup := seenOrder[p.Order]; dup {
			return Plan{}, apperrors.WithMetadata(apperrors.CodeValidation,
				fmt.Sprintf("order %d requested for both %s and %s", p.Order, other, p.ID),
				map[string]string{"id": p.ID, "order": fmt.Sprint(p.Order)})
		}
		seenOrder[p.Order] = p.ID

		if p.Order < 0 || p.Order >= len(batch) {
			return Plan{}, apperrors.WithMetadata(apperrors.CodeValidation,
				fmt.Sprintf("order %d for %s is outside 0..%d", p.Order, p.ID, len(batch)-1),
				map[string]string{"id": p.ID, "order": fmt.Sprint(p.Order)})
		}

		if _, ok := rank[p.ID]; !ok {
			unknown = append(unknown, p.ID)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Plan{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("not in scope %s: %s", c.scope, strings.Join(unknown, ", ")),
			map[string]string{"scope": c.scope, "ids": strings.Join(unknown, ",")})
	}

	// Slots the batch currently occupies, ascending.
	slots := make([]int, 0, len(batch))
	for _, p := range batch {
		slots = append(slots, rank[p.ID])
	}
	slices.Sort(slots)

	arranged := slices.Clone(c.entries)
	for _, p := range batch {
		arranged[slots[p.Order]] = c.entries[rank[p.ID]]
	}

	return Plan{
		Scope: c.scope,
		Order: -1,
		Moves: movesFor(arranged),
	}, nil
}

// movesFor returns a move for every entry whose stored order differs from its
// index in arranged.
func movesFor[T Entry](arranged []T) []Position {
	var moves []Position
	for i, e := range arranged {
		if e.EntryOrder() != i {
			moves = append(moves, Position{ID: e.EntryID(), Order: i})
		}
	}
	return moves
}
