package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"quiz-ai/internal/domain"
)

// TierSettings is the backend configuration for one model tier.
type TierSettings struct {
	Model     string
	MaxTokens int
}

// Options configure a Generator. Zero fields fall back to DefaultOptions.
type Options struct {
	Tiers       map[domain.ModelTier]TierSettings
	Temperature float64
	TopP        float64
	Language    string
	// Timeout bounds one backend call; zero leaves only the caller's deadline.
	Timeout time.Duration
	// Now stamps generated_at; defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the tier models and budgets used in production.
func DefaultOptions() Options {
	return Options{
		Tiers: map[domain.ModelTier]TierSettings{
			domain.TierStandard: {Model: "gpt-3.5-turbo", MaxTokens: 650},
			domain.TierHigh:     {Model: "gpt-4o", MaxTokens: 800},
		},
		Temperature: 0.7,
		TopP:        1.0,
		Language:    DefaultLanguage,
		Now:         time.Now,
	}
}

// Generator turns one request into one validated quiz item with exactly one
// backend call. It never retries.
type Generator struct {
	backend Backend
	prompts PromptBuilder
	opts    Options
	logger  *zap.Logger
}

var _ domain.QuizGenerator = (*Generator)(nil)

// NewGenerator creates a Generator on top of backend.
func NewGenerator(backend Backend, opts Options, logger *zap.Logger) *Generator {
	defaults := DefaultOptions()
	tiers := make(map[domain.ModelTier]TierSettings, len(defaults.Tiers))
	for tier, def := range defaults.Tiers {
		s := opts.Tiers[tier]
		if s.Model == "" {
			s.Model = def.Model
		}
		if s.MaxTokens <= 0 {
			s.MaxTokens = def.MaxTokens
		}
		tiers[tier] = s
	}
	opts.Tiers = tiers
	if opts.Temperature == 0 {
		opts.Temperature = defaults.Temperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaults.TopP
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		backend: backend,
		prompts: PromptBuilder{Language: opts.Language},
		opts:    opts,
		logger:  logger,
	}
}

// Generate produces a single quiz item. Failures are *domain.GenerationError.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedQuizItem, error) {
	if err := validateItemRequest(req); err != nil {
		return nil, err
	}

	prompt := g.prompts.Build(req.Topic, req.Difficulty)
	settings := g.opts.Tiers[prompt.Tier]

	fields := []zap.Field{
		zap.String("topic", req.Topic),
		zap.Int("difficulty", req.Difficulty),
		zap.String("tier", string(prompt.Tier)),
		zap.String("model", settings.Model),
	}

	callCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	completion, err := g.backend.Complete(callCtx, CompletionRequest{
		Model:       settings.Model,
		System:      prompt.System,
		User:        prompt.User,
		MaxTokens:   settings.MaxTokens,
		Temperature: g.opts.Temperature,
		TopP:        g.opts.TopP,
	})
	fields = append(fields, zap.Duration("latency", time.Since(started)))
	if err != nil {
		err = classify(err)
		g.logger.Warn("Quiz generation call failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	if completion.Usage != nil {
		fields = append(fields,
			zap.Int("prompt_tokens", completion.Usage.PromptTokens),
			zap.Int("completion_tokens", completion.Usage.CompletionTokens),
			zap.Int("total_tokens", completion.Usage.TotalTokens),
		)
	}

	item, err := parseQuizItem(completion.Text)
	if err != nil {
		g.logger.Warn("Quiz generation returned a malformed response",
			append(fields, zap.Error(err), zap.Int("response_length", len(completion.Text)))...)
		g.logger.Debug("Malformed response body", zap.String("response", completion.Text))
		return nil, err
	}

	item.Topic = req.Topic
	item.Difficulty = req.Difficulty
	item.GeneratedAt = g.opts.Now().UTC()

	g.logger.Info("Quiz generated",
		append(fields, zap.Int("explanation_length", len([]rune(item.Explanation))))...)
	return item, nil
}

// CheckConnection issues a tiny standard tier call to prove the backend is
// reachable and the credential is accepted. It returns the model's reply.
func (g *Generator) CheckConnection(ctx context.Context) (string, error) {
	settings := g.opts.Tiers[domain.TierStandard]
	callCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	completion, err := g.backend.Complete(callCtx, CompletionRequest{
		Model:     settings.Model,
		User:      "This is a connection test. Reply with the words \"connection ok\".",
		MaxTokens: 50,
	})
	if err != nil {
		return "", classify(err)
	}
	return strings.TrimSpace(completion.Text), nil
}

// withTimeout bounds a backend call by Options.Timeout when it is set.
func (g *Generator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.opts.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.opts.Timeout)
}

// validateItemRequest checks topic and difficulty only; count belongs to the
// batch layer.
func validateItemRequest(req domain.GenerationRequest) error {
	check := req
	check.Count = 1
	return check.Validate()
}

// classify makes sure every backend failure carries a generation kind.
// Unclassified errors are treated as transport failures.
func classify(err error) error {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewGenerationError(domain.KindTransport, err)
	}
	return domain.NewGenerationError(domain.KindTransport, fmt.Errorf("backend call: %w", err))
}
