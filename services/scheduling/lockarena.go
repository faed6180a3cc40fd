package scheduling

import (
	"sync"
	"time"
)

// LockArena is a set of mutexes keyed by (professionalID, date). Booking
// mutations for the same key serialize; different professionals or dates
// never block each other. Entries are reference-counted so the arena does
// not grow without bound.
type LockArena struct {
	mu      sync.Mutex
	entries map[string]*arenaEntry
}

type arenaEntry struct {
	sem  chan struct{} // capacity 1; holding the token means holding the lock
	refs int
}

// NewLockArena creates an empty arena.
func NewLockArena() *LockArena {
	return &LockArena{entries: make(map[string]*arenaEntry)}
}

// Acquire takes the lock for key, waiting at most timeout. On success it
// returns a release function that must be called exactly once. On timeout it
// returns false and the caller should surface a retryable error rather than
// keep the request hanging.
func (a *LockArena) Acquire(key string, timeout time.Duration) (func(), bool) {
	a.mu.Lock()
	entry, ok := a.entries[key]
	if !ok {
		entry = &arenaEntry{sem: make(chan struct{}, 1)}
		a.entries[key] = entry
	}
	entry.refs++
	a.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case entry.sem <- struct{}{}:
		release := func() {
			<-entry.sem
			a.put(key, entry)
		}
		return release, true
	case <-timer.C:
		a.put(key, entry)
		return nil, false
	}
}

func (a *LockArena) put(key string, entry *arenaEntry) {
	a.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(a.entries, key)
	}
	a.mu.Unlock()
}
