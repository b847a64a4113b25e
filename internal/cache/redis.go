package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plantque/plantque/internal/models"
)

var _ Store = &Redis{}

// Redis stores JSON-encoded results under the image fingerprint with a
// native TTL, for deployments that want the cache to survive restarts
// or be shared by replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (*models.Result, bool, error) {
	data, err := r.client.Get(ctx, "scan:"+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cached result: %w", err)
	}

	var result models.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("decoding cached result: %w", err)
	}

	return &result, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, value *models.Result) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if err := r.client.Set(ctx, "scan:"+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing result: %w", err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
