package quizgen

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"quiz-ai/internal/domain"
)

// MockLLM is a mock type for the llms.Model interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt, options)
	return args.String(0), args.Error(1)
}

func TestNewOllamaBackend_EmptyURL(t *testing.T) {
	_, err := NewOllamaBackend("")
	assert.ErrorContains(t, err, "ollama server URL cannot be empty")
}

func TestOllamaBackend_Complete(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.MatchedBy(func(msgs []llms.MessageContent) bool {
		return len(msgs) == 2 &&
			msgs[0].Role == llms.ChatMessageTypeSystem &&
			msgs[1].Role == llms.ChatMessageTypeHuman
	}), mock.Anything).Return(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        validItemJSON,
			GenerationInfo: map[string]any{"PromptTokens": 12, "CompletionTokens": 30},
		}},
	}, nil)

	b := NewLangchainBackend(llm)
	resp, err := b.Complete(context.Background(), CompletionRequest{
		Model: "llama3", System: "sys", User: "usr", MaxTokens: 650, Temperature: 0.7, TopP: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, validItemJSON, resp.Text)
	assert.Equal(t, "llama3", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 12, resp.Usage.PromptTokens)
	assert.Equal(t, 42, resp.Usage.TotalTokens)

	opts := llm.Calls[0].Arguments.Get(2).([]llms.CallOption)
	var callOpts llms.CallOptions
	for _, o := range opts {
		o(&callOpts)
	}
	assert.Equal(t, "llama3", callOpts.Model)
	assert.Equal(t, 650, callOpts.MaxTokens)
	assert.Equal(t, 0.7, callOpts.Temperature)
	llm.AssertExpectations(t)
}

func TestOllamaBackend_NoUsage(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(&llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "hi"}}}, nil)

	resp, err := NewLangchainBackend(llm).Complete(context.Background(), CompletionRequest{User: "u"})
	require.NoError(t, err)
	assert.Nil(t, resp.Usage)
}

func TestOllamaBackend_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, domain.ErrTransport},
		{"cancelled", context.Canceled, domain.ErrTransport},
		{"unauthorized", errors.New("401 Unauthorized"), domain.ErrAuth},
		{"throttled", errors.New("429 Too Many Requests"), domain.ErrRateLimit},
		{"model missing", errors.New(`model "llama9" not found`), domain.ErrBackendFault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(MockLLM)
			llm.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := NewLangchainBackend(llm).Complete(context.Background(), CompletionRequest{User: "u"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOllamaBackend_NoChoices(t *testing.T) {
	llm := new(MockLLM)
	llm.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(&llms.ContentResponse{}, nil)

	_, err := NewLangchainBackend(llm).Complete(context.Background(), CompletionRequest{User: "u"})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
