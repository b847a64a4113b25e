package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Strategy = &FixedWindow{}

type clientWindow struct {
	windowStart time.Time
	count       int
}

// FixedWindow is the in-process admission strategy: one counter per
// client identifier, reset when its window lapses. A janitor sweeps
// identifiers that have been idle for more than a full window so the
// map stays bounded by the number of recently active clients.
type FixedWindow struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
	stop    chan struct{}
}

// NewFixedWindow builds an in-memory limiter. Zero limit or window fall
// back to the defaults.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	f := &FixedWindow{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	go f.janitor()

	return f
}

// Allow checks and updates the identifier's window. It never blocks and
// never returns an error; the error is part of the Strategy contract for
// backends with a network in the way.
func (f *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()

	state, ok := f.clients[key]
	if !ok || now.Sub(state.windowStart) >= f.window {
		f.clients[key] = &clientWindow{windowStart: now, count: 1}
		return &Result{Allowed: true, Remaining: f.limit - 1, ResetAt: now.Add(f.window)}, nil
	}

	resetAt := state.windowStart.Add(f.window)

	if state.count >= f.limit {
		return &Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	state.count++
	return &Result{Allowed: true, Remaining: f.limit - state.count, ResetAt: resetAt}, nil
}

// Close stops the janitor.
func (f *FixedWindow) Close() error {
	close(f.stop)
	return nil
}

func (f *FixedWindow) janitor() {
	ticker := time.NewTicker(f.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.sweep()
		case <-f.stop:
			return
		}
	}
}

// sweep drops identifiers whose window lapsed more than a full window
// ago; they would be reset on their next request anyway.
func (f *FixedWindow) sweep() {
	f.mu.Lock()
	defer f.mu.Unlock()

	cutoff := f.now().Add(-2 * f.window)
	for key, state := range f.clients {
		if state.windowStart.Before(cutoff) {
			delete(f.clients, key)
		}
	}
}
