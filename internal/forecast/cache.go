package forecast

import (
	"context"
	"time"
)

// Cache is the key-value surface the usecase needs for batch caching.
// Satisfied by pkg/cache.RedisClient; may be nil when no cache is wired.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
