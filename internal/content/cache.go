package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores raw content documents between fetches. A cache failure is
// never fatal; the client falls through to the origin.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type redisCache struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, logger *slog.Logger) Cache {
	return &redisCache{
		client: client,
		logger: logger,
	}
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("content cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Warn("content cache write failed", "key", key, "error", err)
	}
}

// NoopCache disables caching; used in tests and when Redis is unavailable.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) ([]byte, bool)                 { return nil, false }
func (NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
