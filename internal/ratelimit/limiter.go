// Package ratelimit gates request admission per client identifier using
// a fixed-window counter: a per-identifier ceiling over consecutive,
// non-overlapping windows.
package ratelimit

import (
	"context"
	"time"
)

const (
	// DefaultLimit is the per-identifier request ceiling per window.
	DefaultLimit = 40
	// DefaultWindow is the admission window length.
	DefaultWindow = 60 * time.Second
)

// Result is the outcome of an admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Strategy is the admission contract. Implementations never block and
// mutate only the state of the identifier being checked.
type Strategy interface {
	Allow(ctx context.Context, key string) (*Result, error)
}
