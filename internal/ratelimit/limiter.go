// Package ratelimit bounds the rate of an operation per caller identity
// using fixed time windows.
//
// Counters are process-local: in a horizontally scaled deployment each
// instance counts independently. That is a documented limitation, not a
// bug — callers needing a global limit must pair this with an external
// shared store.
package ratelimit

import (
	"sync"
	"time"
)

const defaultSweepInterval = 5 * time.Minute

type entry struct {
	count   int
	resetAt time.Time
}

// Result is the outcome of a single Check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Current   int
}

// Limiter holds per-identity window counters. It is an explicitly owned
// object — construct one per server, not a package global — so tests and
// multiple tenants do not interfere.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewLimiter creates a Limiter and starts its background sweep, which purges
// expired entries every sweepInterval to bound memory (pass 0 for the
// default of five minutes). Call Close when done.
func NewLimiter(sweepInterval time.Duration) *Limiter {
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}

	l := &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}

	go l.sweep(sweepInterval)
	return l
}

// Check records one request for identifier and reports whether it fits
// within limit requests per window. The first request of an identity, or
// the first after its window lapsed, starts a fresh window.
func (l *Limiter) Check(identifier string, limit int, window time.Duration) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 0, resetAt: now.Add(window)}
		l.entries[identifier] = e
	}

	e.count++

	remaining := limit - e.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   e.count <= limit,
		Remaining: remaining,
		ResetAt:   e.resetAt,
		Current:   e.count,
	}
}

// Len reports the number of tracked identities (expired ones included until
// the next sweep).
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Close stops the background sweep. Idempotent.
func (l *Limiter) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.purgeExpired()
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) purgeExpired() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, id)
		}
	}
}
