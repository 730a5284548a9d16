package quizgen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quiz-ai/internal/config"
	"quiz-ai/internal/domain"
)

func TestNewBackendFromConfig(t *testing.T) {
	b, err := NewBackendFromConfig(config.LLMConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIBackend{}, b)

	_, err = NewBackendFromConfig(config.LLMConfig{Provider: config.ProviderOpenAI})
	assert.Error(t, err)

	b, err = NewBackendFromConfig(config.LLMConfig{Provider: config.ProviderOllama, OllamaServerURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaBackend{}, b)

	_, err = NewBackendFromConfig(config.LLMConfig{Provider: "bard"})
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.LLMConfig{
		Models:      map[string]string{"standard": "small", "high": "large"},
		MaxTokens:   map[string]int{"standard": 100, "high": 200},
		Temperature: 0.3,
		Language:    "English",
		Timeout:     5 * time.Second,
	})

	assert.Equal(t, TierSettings{Model: "small", MaxTokens: 100}, opts.Tiers[domain.TierStandard])
	assert.Equal(t, TierSettings{Model: "large", MaxTokens: 200}, opts.Tiers[domain.TierHigh])
	assert.Equal(t, 0.3, opts.Temperature)
	assert.Equal(t, "English", opts.Language)
	assert.Equal(t, 5*time.Second, opts.Timeout)
}

type deadlineBackend struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineBackend) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	d.deadline, d.ok = ctx.Deadline()
	return &Completion{Text: validItemJSON, Model: req.Model}, nil
}

func TestGenerator_Generate_AppliesTimeout(t *testing.T) {
	backend := &deadlineBackend{}
	opts := DefaultOptions()
	opts.Timeout = time.Minute
	g := NewGenerator(backend, opts, zap.NewNop())

	_, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 1, Count: 1})
	require.NoError(t, err)
	require.True(t, backend.ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), backend.deadline, 5*time.Second)
}

func TestGenerator_CheckConnection_AppliesTimeout(t *testing.T) {
	backend := &deadlineBackend{}
	opts := DefaultOptions()
	opts.Timeout = 10 * time.Second
	g := NewGenerator(backend, opts, zap.NewNop())

	_, err := g.CheckConnection(context.Background())
	require.NoError(t, err)
	require.True(t, backend.ok)
	assert.WithinDuration(t, time.Now().Add(10*time.Second), backend.deadline, 5*time.Second)
}

func TestGenerator_CheckConnection_NoTimeout(t *testing.T) {
	backend := &deadlineBackend{}
	g := NewGenerator(backend, DefaultOptions(), zap.NewNop())

	_, err := g.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.False(t, backend.ok)
}
