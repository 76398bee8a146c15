package app

import (
	"time"

	"github.com/google/uuid"
)

// ID prefixes for journal entities.
const (
	actIDPrefix     = "act"
	chapterIDPrefix = "chap"
	noteIDPrefix    = "note"
)

// newID returns a prefixed random id such as "act-3f2c...".
// Random ids let two campaigns insert concurrently without a shared counter.
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Clock returns the current time. Stores take one so tests can pin timestamps.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
