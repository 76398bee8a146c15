package app

import (
	"context"
	"sync"
)

// ScopeLocks serializes operations per parent scope ("campaign:<id>",
// "act:<id>", ...). Unrelated scopes never contend. Entries are reference
// counted and dropped once no caller holds or waits on them.
type ScopeLocks struct {
	mu   sync.Mutex
	held map[string]*scopeLock
}

type scopeLock struct {
	sem  chan struct{}
	refs int
}

// NewScopeLocks creates an empty lock table.
func NewScopeLocks() *ScopeLocks {
	return &ScopeLocks{held: make(map[string]*scopeLock)}
}

// Lock acquires every key in the order given and returns a func releasing
// them in reverse. Callers must always pass keys in the same relative order
// (campaign before act). If ctx ends while waiting, locks already taken are
// released and ctx.Err() is returned.
func (l *ScopeLocks) Lock(ctx context.Context, keys ...string) (func(), error) {
	var acquired []string
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			l.release(acquired[i])
		}
	}

	for _, key := range keys {
		if contains(acquired, key) {
			continue
		}
		sl := l.ref(key)
		select {
		case sl.sem <- struct{}{}:
			acquired = append(acquired, key)
		case <-ctx.Done():
			l.unref(key)
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

// Len returns the number of scopes currently held or awaited.
func (l *ScopeLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

func (l *ScopeLocks) ref(key string) *scopeLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl, ok := l.held[key]
	if !ok {
		sl = &scopeLock{sem: make(chan struct{}, 1)}
		l.held[key] = sl
	}
	sl.refs++
	return sl
}

func (l *ScopeLocks) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl := l.held[key]
	<-sl.sem
	l.dropLocked(key, sl)
}

func (l *ScopeLocks) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropLocked(key, l.held[key])
}

func (l *ScopeLocks) dropLocked(key string, sl *scopeLock) {
	sl.refs--
	if sl.refs == 0 {
		delete(l.held, key)
	}
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func campaignScope(id string) string { return "campaign:" + id }
func actScope(id string) string      { return "act:" + id }
func notesScope(id string) string    { return "notes:" + id }
