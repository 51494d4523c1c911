//go:build race

package slab

import "sync"

// pinLock is never contended: only the goroutine pinned to a P takes that P's
// lock. It exists so the race detector sees the ordering the scheduler
// already guarantees.
type pinLock struct {
	mu sync.Mutex
}

func (l *pinLock) lock()   { l.mu.Lock() }
func (l *pinLock) unlock() { l.mu.Unlock() }
