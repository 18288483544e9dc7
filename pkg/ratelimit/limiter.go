// Package ratelimit provides a sliding-window rate limiter for outbound
// requests. Unlike a rejecting limiter, Acquire blocks the caller until a
// slot becomes available, so callers are throttled rather than failed.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultWindow is the rolling interval over which request counts apply.
const DefaultWindow = time.Minute

// Limiter enforces "at most N operations per rolling window" per key.
// Each operation class (e.g. search vs. fetch) should own its own Limiter
// so their budgets stay independent.
type Limiter struct {
	limit  int
	window time.Duration
	store  Store

	// now and sleep are replaceable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	stamps map[string][]time.Time
	loaded map[string]bool
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithWindow overrides the rolling window size.
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) { l.window = d }
}

// WithStore attaches a durable timestamp store so the window survives
// restarts. Store failures are logged and otherwise ignored: the limiter
// can delay callers but never fail them.
func WithStore(s Store) Option {
	return func(l *Limiter) { l.store = s }
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithSleeper overrides the wait implementation. Test hook.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) { l.sleep = sleep }
}

// New creates a Limiter allowing at most limit acquisitions per key within
// the rolling window (one minute by default).
func New(limit int, opts ...Option) *Limiter {
	l := &Limiter{
		limit:  limit,
		window: DefaultWindow,
		now:    time.Now,
		sleep:  sleepContext,
		stamps: make(map[string][]time.Time),
		loaded: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire blocks until an operation under key is permitted, then records it.
// Capacity exhaustion is never an error; the only failure mode is the
// context being cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context, key string) error {
	for {
		wait, ok := l.tryAcquire(key)
		if ok {
			return nil
		}
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAcquire attempts to claim a slot for key. On success it records the
// timestamp and returns (0, true). Otherwise it returns the duration until
// the oldest in-window timestamp expires. The purge-check-record sequence
// runs under the mutex so concurrent callers cannot overshoot the limit.
func (l *Limiter) tryAcquire(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.loadLocked(key)

	now := l.now()
	cutoff := now.Add(-l.window)

	stamps := l.stamps[key]
	for len(stamps) > 0 && !stamps[0].After(cutoff) {
		stamps = stamps[1:]
	}

	if l.limit > 0 && len(stamps) >= l.limit {
		l.stamps[key] = stamps
		return stamps[0].Add(l.window).Sub(now), false
	}

	stamps = append(stamps, now)
	l.stamps[key] = stamps
	l.persistLocked(key, stamps)
	return 0, true
}

// loadLocked pulls the persisted window for key on first use.
func (l *Limiter) loadLocked(key string) {
	if l.store == nil || l.loaded[key] {
		return
	}
	l.loaded[key] = true

	stamps, err := l.store.Load(key)
	if err != nil {
		slog.Warn("rate limiter: loading persisted window failed", "key", key, "error", err)
		return
	}
	if len(stamps) > 0 {
		l.stamps[key] = stamps
	}
}

func (l *Limiter) persistLocked(key string, stamps []time.Time) {
	if l.store == nil {
		return
	}
	if err := l.store.Save(key, stamps); err != nil {
		slog.Warn("rate limiter: persisting window failed", "key", key, "error", err)
	}
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
