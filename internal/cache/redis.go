package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-ai/internal/config"
)

const connectTimeout = 5 * time.Second

// ErrNoAddress is returned when Redis is not configured.
var ErrNoAddress = errors.New("redis address is empty")

// NewRedisClient connects to cfg.Address and pings it. The client is closed
// again when the ping fails.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrNoAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}
