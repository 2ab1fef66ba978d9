package service

import (
	"sync"
	"time"
)

const (
	defaultLockoutWindow = 15 * time.Minute
	defaultMaxFailures   = 3
)

type attemptRecord struct {
	count        int
	firstFailure time.Time
}

// LockoutTracker is the per-identifier layer of the brute-force guard. It
// counts consecutive failed logins per identifier inside a rolling window
// starting at the first failure; once the window elapses the counter resets
// regardless of outcome, so stale failures never accumulate across unrelated
// sessions.
//
// State is process-local: a restart clears all lockouts. The tracker is owned
// by the composition root and injected, never a package-level singleton.
type LockoutTracker struct {
	mu          sync.Mutex
	attempts    map[string]*attemptRecord
	window      time.Duration
	maxFailures int
	now         func() time.Time
}

// NewLockoutTracker creates a tracker. Non-positive window or maxFailures
// fall back to the defaults (15 minutes, 3 failures).
func NewLockoutTracker(window time.Duration, maxFailures int) *LockoutTracker {
	if window <= 0 {
		window = defaultLockoutWindow
	}
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	return &LockoutTracker{
		attempts:    make(map[string]*attemptRecord),
		window:      window,
		maxFailures: maxFailures,
		now:         time.Now,
	}
}

// Check reports whether the identifier is currently locked out, and if so how
// long until the window expires. An elapsed window is reset before the check,
// so a locked identifier becomes usable again without any successful login.
func (t *LockoutTracker) Check(identifier string) (locked bool, retryAfter time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.attempts[identifier]
	if !ok {
		return false, 0
	}

	elapsed := t.now().Sub(rec.firstFailure)
	if elapsed > t.window {
		delete(t.attempts, identifier)
		return false, 0
	}
	if rec.count >= t.maxFailures {
		return true, t.window - elapsed
	}
	return false, 0
}

// RecordFailure counts one failed credential check against the identifier.
// The first failure inside a fresh window starts the window.
func (t *LockoutTracker) RecordFailure(identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	rec, ok := t.attempts[identifier]
	if !ok || now.Sub(rec.firstFailure) > t.window {
		t.attempts[identifier] = &attemptRecord{count: 1, firstFailure: now}
		return
	}
	rec.count++
}

// Clear removes the identifier's record after a successful login.
func (t *LockoutTracker) Clear(identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, identifier)
}
