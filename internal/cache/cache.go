// Package cache maps image fingerprints to previously composed
// identification results, with time-based expiry. A hit short-circuits
// the whole downstream pipeline for repeated submissions of the same
// bytes.
package cache

import (
	"context"
	"time"

	"github.com/plantque/plantque/internal/models"
)

// DefaultTTL is how long a stored result stays servable.
const DefaultTTL = time.Hour

// Store is the result cache contract. Get treats expired entries as
// absent; backends may evict them lazily. Put always overwrites.
type Store interface {
	Get(ctx context.Context, key string) (*models.Result, bool, error)
	Put(ctx context.Context, key string, value *models.Result) error
	Close() error
}
