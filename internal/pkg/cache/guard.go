package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyGuard claims keys with SET NX so that a one-shot action runs at
// most once per key within the TTL.
type IdempotencyGuard struct {
	rdb redis.Cmdable
}

func NewIdempotencyGuard(rdb redis.Cmdable) *IdempotencyGuard {
	return &IdempotencyGuard{rdb: rdb}
}

// Acquire reports whether the key was free and is now held by the caller.
func (g *IdempotencyGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	return g.rdb.Del(ctx, key).Err()
}
