package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"

	"quiz-ai/internal/domain"
)

// OpenAIConfig holds the settings for OpenAIBackend.
type OpenAIConfig struct {
	APIKey string
	// BaseURL points at an OpenAI compatible API; empty uses api.openai.com.
	BaseURL string
}

// OpenAIBackend implements Backend with the chat completions API.
type OpenAIBackend struct {
	client *openai.Client
}

// NewOpenAIBackend creates a backend. A missing API key is a startup error.
func NewOpenAIBackend(cfg OpenAIConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(config)}, nil
}

func (b *OpenAIBackend) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, domain.NewMalformedResponseError("", errors.New("no choices in OpenAI response"))
	}

	return &Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func mapOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status != 0 {
		return domain.NewGenerationError(kindForStatus(status), err)
	}
	return domain.NewGenerationError(domain.KindTransport, err)
}

// kindForStatus maps an HTTP status from a backend to a failure kind. Other
// rejections (400, 404, 5xx) are backend faults.
func kindForStatus(status int) domain.GenerationErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.KindAuth
	case http.StatusTooManyRequests:
		return domain.KindRateLimit
	default:
		return domain.KindBackendFault
	}
}

// isNetworkError reports connection level failures (DNS, refused, reset).
func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
