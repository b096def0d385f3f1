package memory

import (
	"context"
	"sync"
	"time"
)

// Limiter is a fixed-window request counter keyed by client address.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	counts  map[string]int
	started map[string]time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return NewLimiterWithClock(limit, window, time.Now)
}

// NewLimiterWithClock is test-only for deterministic windows.
func NewLimiterWithClock(limit int, window time.Duration, now func() time.Time) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     now,
		counts:  make(map[string]int),
		started: make(map[string]time.Time),
	}
}

func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if started, ok := l.started[key]; !ok || now.Sub(started) >= l.window {
		l.started[key] = now
		l.counts[key] = 0
	}
	l.counts[key]++
	return l.counts[key] <= l.limit, nil
}
