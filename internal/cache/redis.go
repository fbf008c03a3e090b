package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/storage/redis/v3"
)

// keyPrefix namespaces resolution entries in a shared Redis.
const keyPrefix = "kfit:image:"

// store is the subset of fiber.Storage the Redis backend needs.
type store interface {
	GetWithContext(ctx context.Context, key string) ([]byte, error)
	SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error
	Close() error
}

// Redis is a cache backed by a Redis server, shared between replicas.
type Redis struct {
	store store
}

// NewRedis connects to the Redis server at url.
// The underlying storage panics if the server cannot be reached.
func NewRedis(url string) *Redis {
	return &Redis{store: redis.New(redis.Config{URL: url})}
}

// Get returns the cached URL for key. Errors are logged and read as a miss.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.store.GetWithContext(ctx, keyPrefix+key)
	if err != nil {
		slog.Warn("redis cache read failed", "key", key, "error", err)
		return "", false
	}
	if len(val) == 0 {
		return "", false
	}
	return string(val), true
}

// Set stores url under key without expiration.
func (r *Redis) Set(ctx context.Context, key, url string) {
	if err := r.store.SetWithContext(ctx, keyPrefix+key, []byte(url), 0); err != nil {
		slog.Warn("redis cache write failed", "key", key, "error", err)
	}
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.store.Close()
}
