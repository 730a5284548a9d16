package quizgen

import (
	"context"
)

// Backend is a single synchronous request/response call to a generative
// model. Implementations classify their failures as *domain.GenerationError.
type Backend interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// CompletionRequest describes one backend call.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Completion is the raw text returned by the backend.
type Completion struct {
	Text  string
	Model string
	// Usage is nil when the backend does not report token counts.
	Usage *Usage
}

// Usage tracks token consumption for a single call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
