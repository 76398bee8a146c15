// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// Persist operations understood by the executor.
const (
	OpDelete  = "delete"  // remove one entity by ID
	OpReorder = "reorder" // rewrite positions within a scope
)

// Entities that carry positions.
const (
	EntityAct     = "act"
	EntityChapter = "chapter"
)

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents a database persistence operation.
type PersistEffect struct {
	Entity    string // EntityAct or EntityChapter
	Operation string // OpDelete or OpReorder
	Scope     string // parent ID (campaign for acts, act for chapters)
	ID        string // target entity for OpDelete
	Positions []Position
}

func (e PersistEffect) EffectType() string { return "persist" }

// Position is a single (id, order) assignment inside a scope.
type Position struct {
	ID    string
	Order int
}
