package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Strategy = &RedisFixedWindow{}

// RedisFixedWindow keeps the window counters in redis, for deployments
// that want limits shared across process restarts. Same fixed-window
// semantics as the in-memory strategy.
type RedisFixedWindow struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisFixedWindow(client *redis.Client, limit int, window time.Duration) *RedisFixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	return &RedisFixedWindow{client: client, limit: limit, window: window}
}

func (r *RedisFixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	redisKey := "ratelimit:" + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("incrementing counter for %s: %w", key, err)
	}

	// First hit in a window owns setting the expiry.
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return nil, fmt.Errorf("setting window expiry for %s: %w", key, err)
		}
	}

	ttl, err := r.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = r.window
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(r.limit) {
		return &Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	return &Result{Allowed: true, Remaining: r.limit - int(count), ResetAt: resetAt}, nil
}
