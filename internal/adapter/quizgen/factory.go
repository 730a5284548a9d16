package quizgen

import (
	"fmt"

	"go.uber.org/zap"

	"quiz-ai/internal/config"
	"quiz-ai/internal/domain"
)

// NewBackendFromConfig selects the backend named by cfg.Provider.
func NewBackendFromConfig(cfg config.LLMConfig) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIBackend(OpenAIConfig{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL})
	case config.ProviderOllama:
		return NewOllamaBackend(cfg.OllamaServerURL)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}

// OptionsFromConfig maps the llm section onto generator options.
func OptionsFromConfig(cfg config.LLMConfig) Options {
	tiers := make(map[domain.ModelTier]TierSettings, 2)
	for _, tier := range []domain.ModelTier{domain.TierStandard, domain.TierHigh} {
		tiers[tier] = TierSettings{
			Model:     cfg.Models[string(tier)],
			MaxTokens: cfg.MaxTokens[string(tier)],
		}
	}
	return Options{
		Tiers:       tiers,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		Language:    cfg.Language,
		Timeout:     cfg.Timeout,
	}
}

// NewGeneratorFromConfig builds the backend and wraps it in a Generator.
func NewGeneratorFromConfig(cfg config.LLMConfig, logger *zap.Logger) (*Generator, error) {
	backend, err := NewBackendFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewGenerator(backend, OptionsFromConfig(cfg), logger), nil
}
