package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"quiz-ai/internal/config"
	"quiz-ai/internal/domain"
)

// ItemSink receives every successfully generated batch item with its 1-based
// index. A returned error turns that position into a failure. In concurrent
// mode calls may overlap.
type ItemSink func(ctx context.Context, index int, item *domain.GeneratedQuizItem) error

// ConnectionChecker is implemented by generators that can probe their
// backend.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) (string, error)
}

// GenerationService drives a QuizGenerator with retries and batching.
type GenerationService interface {
	// GenerateWithRetry returns one item or a *domain.RetryExhaustedError.
	GenerateWithRetry(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedQuizItem, error)
	// GenerateBatch attempts every position of req.Count. The error is only
	// set for an invalid request; generation failures are reported per
	// position in the result.
	GenerateBatch(ctx context.Context, req domain.GenerationRequest) (*domain.BatchResult, error)
	// GenerateBatchInto is GenerateBatch with a sink called for each item.
	GenerateBatchInto(ctx context.Context, req domain.GenerationRequest, sink ItemSink) (*domain.BatchResult, error)
	// ValidateBatch checks req against the domain bounds and the configured
	// batch ceiling.
	ValidateBatch(req domain.GenerationRequest) error
	CheckConnection(ctx context.Context) (string, error)
}

// GenerationConfig holds the retry and batch tunables.
type GenerationConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
	// MaxBackoff caps a single backoff wait; zero means no cap.
	MaxBackoff  time.Duration
	Policy      string
	Pacing      time.Duration
	Concurrency int
	// MaxBatchCount is the largest accepted batch, at most domain.MaxBatchCount.
	MaxBatchCount int
}

// GenerationConfigFrom reads the retry and batch sections of cfg.
func GenerationConfigFrom(cfg *config.Config) GenerationConfig {
	return GenerationConfig{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BackoffBase:   cfg.Retry.BackoffBase,
		MaxBackoff:    cfg.Retry.MaxBackoff,
		Policy:        cfg.Retry.Policy,
		Pacing:        cfg.Batch.Pacing,
		Concurrency:   cfg.Batch.Concurrency,
		MaxBatchCount: cfg.Batch.MaxCount,
	}
}

type sleepFunc func(ctx context.Context, d time.Duration) error

type generationService struct {
	generator domain.QuizGenerator
	cfg       GenerationConfig
	logger    *zap.Logger
	sleep     sleepFunc
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(generator domain.QuizGenerator, cfg GenerationConfig, logger *zap.Logger) GenerationService {
	return newGenerationService(generator, cfg, logger)
}

func newGenerationService(generator domain.QuizGenerator, cfg GenerationConfig, logger *zap.Logger) *generationService {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	if cfg.Policy == "" {
		cfg.Policy = config.RetryPolicyUniform
	}
	if cfg.MaxBatchCount < 1 || cfg.MaxBatchCount > domain.MaxBatchCount {
		cfg.MaxBatchCount = domain.MaxBatchCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &generationService{
		generator: generator,
		cfg:       cfg,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// backoff returns the wait after failed attempt k: base * 2^(k-1), capped
// by MaxBackoff. Without a cap the wait saturates at the largest Duration.
func (s *generationService) backoff(attempt int) time.Duration {
	limit := s.cfg.MaxBackoff
	if limit <= 0 {
		limit = time.Duration(math.MaxInt64)
	}
	wait := s.cfg.BackoffBase
	for i := 1; i < attempt && wait < limit; i++ {
		if wait > limit/2 {
			wait = limit
			break
		}
		wait *= 2
	}
	return min(wait, limit)
}

// retryable applies the configured policy to a failed attempt.
func (s *generationService) retryable(err error) bool {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	if s.cfg.Policy == config.RetryPolicyFailFast && errors.Is(err, domain.ErrAuth) {
		return false
	}
	return true
}

func (s *generationService) GenerateWithRetry(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedQuizItem, error) {
	itemReq := req
	itemReq.Count = 1
	if err := itemReq.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		item, err := s.generator.Generate(ctx, itemReq)
		if err == nil {
			if attempt > 1 {
				s.logger.Info("Quiz generation succeeded after retry",
					zap.String("topic", req.Topic), zap.Int("attempt", attempt))
			}
			return item, nil
		}
		lastErr = err

		s.logger.Warn("Quiz generation attempt failed",
			zap.String("topic", req.Topic),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", s.cfg.MaxAttempts),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			return nil, &domain.RetryExhaustedError{Attempts: attempt, Last: err}
		}
		if !s.retryable(err) {
			return nil, &domain.RetryExhaustedError{Attempts: attempt, Last: err}
		}
		if attempt == s.cfg.MaxAttempts {
			break
		}

		wait := s.backoff(attempt)
		s.logger.Debug("Waiting before retry", zap.Duration("wait", wait))
		if err := s.sleep(ctx, wait); err != nil {
			return nil, &domain.RetryExhaustedError{
				Attempts: attempt,
				Last:     fmt.Errorf("%w; retry wait interrupted: %w", lastErr, err),
			}
		}
	}

	return nil, &domain.RetryExhaustedError{Attempts: s.cfg.MaxAttempts, Last: lastErr}
}

func (s *generationService) GenerateBatch(ctx context.Context, req domain.GenerationRequest) (*domain.BatchResult, error) {
	return s.GenerateBatchInto(ctx, req, nil)
}

func (s *generationService) ValidateBatch(req domain.GenerationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Count > s.cfg.MaxBatchCount {
		return domain.NewInvalidRequestError("count must be at most %d, got %d", s.cfg.MaxBatchCount, req.Count)
	}
	return nil
}

func (s *generationService) GenerateBatchInto(ctx context.Context, req domain.GenerationRequest, sink ItemSink) (*domain.BatchResult, error) {
	if err := s.ValidateBatch(req); err != nil {
		return nil, err
	}

	s.logger.Info("Starting batch quiz generation",
		zap.String("topic", req.Topic),
		zap.Int("difficulty", req.Difficulty),
		zap.Int("count", req.Count),
		zap.Int("concurrency", s.cfg.Concurrency),
	)

	var result *domain.BatchResult
	if s.cfg.Concurrency > 1 && req.Count > 1 {
		result = s.runConcurrent(ctx, req, sink)
	} else {
		result = s.runSequential(ctx, req, sink)
	}

	s.logger.Info("Batch quiz generation finished",
		zap.String("topic", req.Topic),
		zap.Int("requested", req.Count),
		zap.Int("generated", len(result.Items)),
		zap.Int("failed", len(result.Failures)),
	)
	return result, nil
}

// generateItem runs one batch position through retries and the sink.
func (s *generationService) generateItem(ctx context.Context, req domain.GenerationRequest, index int, sink ItemSink) (*domain.GeneratedQuizItem, error) {
	item, err := s.GenerateWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	if sink != nil {
		if err := sink(ctx, index, item); err != nil {
			return nil, fmt.Errorf("store item %d: %w", index, err)
		}
	}
	return item, nil
}

func (s *generationService) runSequential(ctx context.Context, req domain.GenerationRequest, sink ItemSink) *domain.BatchResult {
	result := &domain.BatchResult{}
	for index := 1; index <= req.Count; index++ {
		if index > 1 {
			if err := s.sleep(ctx, s.cfg.Pacing); err != nil {
				appendRemaining(result, index, req.Count, err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			appendRemaining(result, index, req.Count, err)
			break
		}

		item, err := s.generateItem(ctx, req, index, sink)
		if err != nil {
			s.logger.Error("Batch item failed",
				zap.Int("index", index), zap.Int("count", req.Count), zap.Error(err))
			result.Failures = append(result.Failures, domain.BatchFailure{Index: index, Err: err})
			continue
		}
		s.logger.Info("Batch item generated", zap.Int("index", index), zap.Int("count", req.Count))
		result.Items = append(result.Items, *item)
	}
	return result
}

// runConcurrent runs up to Concurrency positions at once. Starts are paced
// by a limiter and the result is assembled in index order.
func (s *generationService) runConcurrent(ctx context.Context, req domain.GenerationRequest, sink ItemSink) *domain.BatchResult {
	type outcome struct {
		item *domain.GeneratedQuizItem
		err  error
	}
	outcomes := make([]outcome, req.Count)

	var limiter *rate.Limiter
	if s.cfg.Pacing > 0 {
		limiter = rate.NewLimiter(rate.Every(s.cfg.Pacing), 1)
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i := 0; i < req.Count; i++ {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					outcomes[i].err = err
					return nil
				}
			}
			if err := ctx.Err(); err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].item, outcomes[i].err = s.generateItem(ctx, req, i+1, sink)
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.BatchResult{}
	for i, o := range outcomes {
		if o.err != nil {
			s.logger.Error("Batch item failed", zap.Int("index", i+1), zap.Int("count", req.Count), zap.Error(o.err))
			result.Failures = append(result.Failures, domain.BatchFailure{Index: i + 1, Err: o.err})
			continue
		}
		result.Items = append(result.Items, *o.item)
	}
	return result
}

// appendRemaining records positions from..count as failed with err.
func appendRemaining(result *domain.BatchResult, from, count int, err error) {
	for index := from; index <= count; index++ {
		result.Failures = append(result.Failures, domain.BatchFailure{Index: index, Err: err})
	}
}

func (s *generationService) CheckConnection(ctx context.Context) (string, error) {
	checker, ok := s.generator.(ConnectionChecker)
	if !ok {
		return "", errors.New("generator does not support connection checks")
	}
	return checker.CheckConnection(ctx)
}
