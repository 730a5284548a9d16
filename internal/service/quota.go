package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"quiz-ai/internal/cache"
	"quiz-ai/internal/config"
	"quiz-ai/internal/domain"
	"quiz-ai/internal/logger"
)

// GenerationQuota limits how many quizzes a user may generate per window.
// It counts in a fixed window kept in the cache.
type GenerationQuota struct {
	cache  domain.Cache
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewGenerationQuota returns a quota. A nil cache or a non-positive limit
// disables it.
func NewGenerationQuota(c domain.Cache, cfg config.QuotaConfig) *GenerationQuota {
	window := cfg.Window
	if window <= 0 {
		window = time.Hour
	}
	return &GenerationQuota{cache: c, limit: cfg.GenerationsPerWindow, window: window, now: time.Now}
}

func (q *GenerationQuota) enabled() bool {
	return q != nil && q.cache != nil && q.limit > 0
}

// Consume charges n generations to userID. It returns a rate limited
// DomainError when the window's limit would be exceeded. Cache failures are
// logged and let the request through.
func (q *GenerationQuota) Consume(ctx context.Context, userID string, n int) error {
	if !q.enabled() || n <= 0 {
		return nil
	}

	start := q.now().UTC().Truncate(q.window)
	key := cache.QuotaKey(userID, start)

	used, err := q.cache.IncrBy(ctx, key, int64(n))
	if err != nil {
		logger.Get().Warn("Generation quota unavailable", zap.String("userID", userID), zap.Error(err))
		return nil
	}
	if used == int64(n) {
		if err := q.cache.Expire(ctx, key, q.window); err != nil {
			logger.Get().Warn("Failed to set quota expiry", zap.String("key", key), zap.Error(err))
		}
	}
	if used > q.limit {
		// Give back what this request could not use.
		if _, err := q.cache.IncrBy(ctx, key, -int64(n)); err != nil {
			logger.Get().Warn("Failed to release quota", zap.String("key", key), zap.Error(err))
		}
		return domain.NewRateLimitedError(q.limit)
	}
	return nil
}
