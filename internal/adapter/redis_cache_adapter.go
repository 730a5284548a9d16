package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-ai/internal/domain"
)

var _ domain.Cache = (*RedisCacheAdapter)(nil)

// RedisCacheAdapter backs domain.Cache with Redis. redis.UniversalClient lets
// the same adapter run against a single node or a cluster.
type RedisCacheAdapter struct {
	client redis.UniversalClient
}

func NewRedisCacheAdapter(client redis.UniversalClient) *RedisCacheAdapter {
	return &RedisCacheAdapter{client: client}
}

func (r *RedisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	return val, err
}

func (r *RedisCacheAdapter) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCacheAdapter) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return r.client.Expire(ctx, key, expiration).Err()
}

// IncrBy creates the counter at zero when key is absent.
func (r *RedisCacheAdapter) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	return r.client.IncrBy(ctx, key, delta).Result()
}
