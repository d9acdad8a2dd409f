package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowEntry struct {
	count   int
	resetAt time.Time
}

// FixedWindow is an in-memory fixed window counter keyed by client.
// Entries live until Sweep removes them after their window has passed.
type FixedWindow struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// Option configures a FixedWindow.
type Option func(*FixedWindow)

// WithClock replaces time.Now as the limiter clock.
func WithClock(now func() time.Time) Option {
	return func(f *FixedWindow) { f.now = now }
}

// NewFixedWindow creates a limiter admitting limit requests per window per key.
func NewFixedWindow(limit int, window time.Duration, opts ...Option) *FixedWindow {
	f := &FixedWindow{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Allow reports whether a request from key at now is admitted, counting it if so.
func (f *FixedWindow) Allow(key string, now time.Time) bool {
	return f.take(key, now).Allowed
}

// Check implements Limiter using the limiter clock.
func (f *FixedWindow) Check(_ context.Context, key string) (*Result, error) {
	res := f.take(key, f.now())
	return &res, nil
}

// take runs the read-check-increment sequence under the lock.
func (f *FixedWindow) take(key string, now time.Time) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &windowEntry{count: 1, resetAt: now.Add(f.window)}
		f.entries[key] = e
		return f.result(e, true, now)
	}

	if e.count < f.limit {
		e.count++
		return f.result(e, true, now)
	}

	return f.result(e, false, now)
}

func (f *FixedWindow) result(e *windowEntry, allowed bool, now time.Time) Result {
	res := Result{
		Allowed:   allowed,
		Limit:     f.limit,
		Remaining: f.limit - e.count,
		ResetAt:   e.resetAt,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !allowed {
		res.RetryAfter = e.resetAt.Sub(now)
	}
	return res
}

// Sweep removes entries whose window ended before now and returns how many
// were removed.
func (f *FixedWindow) Sweep(now time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	removed := 0
	for k, e := range f.entries {
		if now.After(e.resetAt) {
			delete(f.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired entries every interval until ctx is cancelled.
func (f *FixedWindow) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				f.Sweep(f.now())
			}
		}
	}()
}

// Len returns the number of tracked keys.
func (f *FixedWindow) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
