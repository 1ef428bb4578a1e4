// Package ratelimit implements fixed-window admission control for message
// posting, keyed by (client address, username).
package ratelimit

import (
	"sync"
	"time"
)

// window is the per-key counter record. It is created lazily on the first
// admission check for a key and reset in place when its window elapses.
type window struct {
	count   int
	startAt time.Time
}

// Limiter admits at most Max calls per key within each Window. It is pure
// admission control: denied calls are reported immediately, never queued.
// Safe for concurrent use; increments for the same key are atomic with
// respect to each other, so the cap cannot be exceeded by a race.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	max     int
	period  time.Duration

	now func() time.Time // injectable clock for tests
}

func NewLimiter(max int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		max:     max,
		period:  period,
		now:     time.Now,
	}
}

// Allow reports whether a call for the key is admitted, counting it if so.
// The Nth call inside a window is admitted, the (N+1)th denied; a call
// arriving after the window has elapsed starts a fresh window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok {
		l.windows[key] = &window{count: 1, startAt: now}
		return true
	}

	if now.Sub(w.startAt) >= l.period {
		w.count = 1
		w.startAt = now
		return true
	}

	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Sweep drops every key whose window has been idle for at least two periods.
// Called periodically by the janitor worker so keys that go permanently idle
// do not grow the map without bound.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, w := range l.windows {
		if now.Sub(w.startAt) >= 2*l.period {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked keys. Exposed for the janitor's logs
// and the health endpoint.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
