package domain

import (
	"context"
	"time"
)

// CacheError is a sentinel error of the cache layer.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key/value store behind the topic list and the generation quota.
// A nil Cache means caching is off; callers check for that themselves.
type Cache interface {
	// Get returns ErrCacheMiss for an absent key.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value; a zero expiration keeps it forever.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete succeeds for an absent key.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
	// IncrBy adds delta to the counter at key and returns the new value.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
}
