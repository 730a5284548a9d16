package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"quiz-ai/internal/domain"
)

// OllamaBackend implements Backend with a langchaingo model, normally a local
// Ollama server.
type OllamaBackend struct {
	llm llms.Model
}

// NewOllamaBackend connects to the Ollama server at serverURL. The model is
// chosen per call from the tier settings.
func NewOllamaBackend(serverURL string) (*OllamaBackend, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}

	llm, err := ollama.New(ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client: %w", err)
	}
	return &OllamaBackend{llm: llm}, nil
}

// NewLangchainBackend wraps any langchaingo model.
func NewLangchainBackend(llm llms.Model) *OllamaBackend {
	return &OllamaBackend{llm: llm}
}

func (b *OllamaBackend) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	var messages []llms.MessageContent
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.User))

	opts := []llms.CallOption{
		llms.WithModel(req.Model),
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	}
	if req.TopP > 0 {
		opts = append(opts, llms.WithTopP(req.TopP))
	}

	resp, err := b.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, mapOllamaError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewMalformedResponseError("", errors.New("no choices in model response"))
	}

	choice := resp.Choices[0]
	return &Completion{
		Text:  choice.Content,
		Model: req.Model,
		Usage: usageFromInfo(choice.GenerationInfo),
	}, nil
}

// usageFromInfo reads the token counts langchaingo reports in
// GenerationInfo. It returns nil when none are present.
func usageFromInfo(info map[string]any) *Usage {
	prompt, okP := intFromInfo(info, "PromptTokens")
	completion, okC := intFromInfo(info, "CompletionTokens")
	if !okP && !okC {
		return nil
	}
	total, ok := intFromInfo(info, "TotalTokens")
	if !ok {
		total = prompt + completion
	}
	return &Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
}

func intFromInfo(info map[string]any, key string) (int, bool) {
	switch v := info[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// mapOllamaError classifies failures by the status text the client embeds
// in its errors; connection failures are transport errors.
func mapOllamaError(err error) error {
	if isNetworkError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewGenerationError(domain.KindTransport, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "unauthorized"):
		return domain.NewGenerationError(domain.KindAuth, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return domain.NewGenerationError(domain.KindRateLimit, err)
	}
	return domain.NewGenerationError(domain.KindBackendFault, err)
}
