package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quiz-ai/internal/cache"
	"quiz-ai/internal/config"
	"quiz-ai/internal/domain"
)

func newTestQuota(c domain.Cache, limit int64) *GenerationQuota {
	q := NewGenerationQuota(c, config.QuotaConfig{GenerationsPerWindow: limit, Window: time.Hour})
	q.now = func() time.Time { return time.Date(2026, 10, 19, 14, 25, 0, 0, time.UTC) }
	return q
}

func TestGenerationQuota_Disabled(t *testing.T) {
	ctx := context.Background()
	var nilQuota *GenerationQuota
	assert.NoError(t, nilQuota.Consume(ctx, "u1", 5))
	assert.NoError(t, newTestQuota(nil, 10).Consume(ctx, "u1", 5))

	c := new(MockCache)
	assert.NoError(t, newTestQuota(c, 0).Consume(ctx, "u1", 5))
	c.AssertNotCalled(t, "IncrBy", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerationQuota_FirstUseSetsExpiry(t *testing.T) {
	c := new(MockCache)
	key := cache.QuotaKey("u1", time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC))
	c.On("IncrBy", mock.Anything, key, int64(3)).Return(int64(3), nil).Once()
	c.On("Expire", mock.Anything, key, time.Hour).Return(nil).Once()

	require.NoError(t, newTestQuota(c, 10).Consume(context.Background(), "u1", 3))
	c.AssertExpectations(t)
}

func TestGenerationQuota_Exceeded(t *testing.T) {
	c := new(MockCache)
	c.On("IncrBy", mock.Anything, mock.Anything, int64(3)).Return(int64(12), nil).Once()
	c.On("IncrBy", mock.Anything, mock.Anything, int64(-3)).Return(int64(9), nil).Once()

	err := newTestQuota(c, 10).Consume(context.Background(), "u1", 3)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeRateLimited, de.Code)
	assert.Equal(t, int64(10), de.Context["limit"])
	c.AssertExpectations(t)
}

func TestGenerationQuota_CacheErrorAllows(t *testing.T) {
	c := new(MockCache)
	c.On("IncrBy", mock.Anything, mock.Anything, int64(1)).Return(int64(0), errors.New("redis down")).Once()

	assert.NoError(t, newTestQuota(c, 10).Consume(context.Background(), "u1", 1))
	c.AssertExpectations(t)
}
