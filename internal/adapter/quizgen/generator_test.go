package quizgen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"quiz-ai/internal/domain"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestGenerator(backend Backend) *Generator {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return NewGenerator(backend, opts, zap.NewNop())
}

func TestGenerator_Generate_Success(t *testing.T) {
	backend := NewMockBackend(MockResponse{
		Text:  "```json\n" + validItemJSON + "\n```",
		Usage: &Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
	})
	g := newTestGenerator(backend)

	item, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 2, Count: 1})
	require.NoError(t, err)

	assert.Equal(t, "Q", item.Question)
	assert.Equal(t, "A1", item.OptionA)
	assert.Equal(t, "D1", item.OptionD)
	assert.Equal(t, domain.AnswerB, item.CorrectAnswer)
	assert.Equal(t, "Go", item.Topic)
	assert.Equal(t, 2, item.Difficulty)
	assert.Equal(t, fixedNow, item.GeneratedAt)

	require.Equal(t, 1, backend.CallCount())
	call := backend.Calls[0]
	assert.Equal(t, "gpt-3.5-turbo", call.Model)
	assert.Equal(t, 650, call.MaxTokens)
	assert.Equal(t, 0.7, call.Temperature)
	assert.Equal(t, 1.0, call.TopP)
	assert.Contains(t, call.User, "Topic: Go")
}

func TestGenerator_Generate_HighTier(t *testing.T) {
	backend := NewMockBackend(MockResponse{Text: validItemJSON})
	g := newTestGenerator(backend)

	_, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Calculus", Difficulty: 3, Count: 1})
	require.NoError(t, err)

	call := backend.Calls[0]
	assert.Equal(t, "gpt-4o", call.Model)
	assert.Equal(t, 800, call.MaxTokens)
	assert.Equal(t, highSystemText, call.System)
}

func TestGenerator_Generate_CustomTiers(t *testing.T) {
	backend := NewMockBackend(MockResponse{Text: validItemJSON})
	opts := Options{Tiers: map[domain.ModelTier]TierSettings{
		domain.TierStandard: {Model: "llama3"},
	}}
	g := NewGenerator(backend, opts, nil)

	_, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 1, Count: 1})
	require.NoError(t, err)

	assert.Equal(t, "llama3", backend.Calls[0].Model)
	assert.Equal(t, 650, backend.Calls[0].MaxTokens)
}

func TestGenerator_Generate_InvalidLetter(t *testing.T) {
	backend := NewMockBackend(MockResponse{
		Text: `{"question":"Q","option_a":"A1","option_b":"B1","option_c":"C1","option_d":"D1","correct_answer":"E","explanation":"x"}`,
	})
	g := newTestGenerator(backend)

	item, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 1, Count: 1})
	assert.Nil(t, item)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.ErrorIs(t, err, &domain.GenerationError{Kind: domain.KindMalformedResponse, Field: "correct_answer"})
}

func TestGenerator_Generate_NoJSON(t *testing.T) {
	backend := NewMockBackend(MockResponse{Text: "Sorry, I can only chat today."})
	g := newTestGenerator(backend)

	_, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 1, Count: 1})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestGenerator_Generate_BackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		backErr error
		want    error
	}{
		{"classified kind kept", domain.NewGenerationError(domain.KindRateLimit, errors.New("429")), domain.ErrRateLimit},
		{"auth kept", domain.NewGenerationError(domain.KindAuth, errors.New("401")), domain.ErrAuth},
		{"unclassified becomes transport", errors.New("connection reset"), domain.ErrTransport},
		{"deadline becomes transport", context.DeadlineExceeded, domain.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(NewMockBackend(MockResponse{Err: tt.backErr}))

			_, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 1, Count: 1})
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.backErr)
		})
	}
}

func TestGenerator_Generate_InvalidRequestSkipsBackend(t *testing.T) {
	backend := NewMockBackend()
	g := newTestGenerator(backend)

	_, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 7})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Zero(t, backend.CallCount())
}

func TestGenerator_Generate_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	backend := NewMockBackend(MockResponse{
		Text:  validItemJSON,
		Usage: &Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	})
	g := NewGenerator(backend, DefaultOptions(), zap.New(core))

	_, err := g.Generate(context.Background(), domain.GenerationRequest{Topic: "Go", Difficulty: 4, Count: 1})
	require.NoError(t, err)

	entries := logs.FilterMessage("Quiz generated").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "high", ctx["tier"])
	assert.Equal(t, "gpt-4o", ctx["model"])
	assert.EqualValues(t, 30, ctx["total_tokens"])
}

func TestGenerator_CheckConnection(t *testing.T) {
	backend := NewMockBackend(MockResponse{Text: "  connection ok \n"})
	g := newTestGenerator(backend)

	reply, err := g.CheckConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "connection ok", reply)
	assert.Equal(t, 50, backend.Calls[0].MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", backend.Calls[0].Model)

	_, err = g.CheckConnection(context.Background())
	assert.ErrorIs(t, err, domain.ErrTransport)
}
