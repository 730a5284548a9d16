package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTopicLength = 100
	MinDifficulty  = 1
	MaxDifficulty  = 5
	MaxBatchCount  = 10
)

// ModelTier is the backend configuration selected by difficulty.
type ModelTier string

const (
	TierStandard ModelTier = "standard"
	TierHigh     ModelTier = "high"
)

// AnswerLetter is one of the four option letters.
type AnswerLetter string

const (
	AnswerA AnswerLetter = "A"
	AnswerB AnswerLetter = "B"
	AnswerC AnswerLetter = "C"
	AnswerD AnswerLetter = "D"
)

func (l AnswerLetter) Valid() bool {
	switch l {
	case AnswerA, AnswerB, AnswerC, AnswerD:
		return true
	}
	return false
}

// GenerationRequest is what the caller asks the generator for.
type GenerationRequest struct {
	Topic      string
	Difficulty int
	Count      int
}

// Validate re-checks the bounds the transport layer is expected to enforce.
func (r GenerationRequest) Validate() error {
	topic := strings.TrimSpace(r.Topic)
	if topic == "" {
		return NewInvalidRequestError("topic is required")
	}
	if utf8.RuneCountInString(topic) > MaxTopicLength {
		return NewInvalidRequestError("topic must be at most %d characters", MaxTopicLength)
	}
	if r.Difficulty < MinDifficulty || r.Difficulty > MaxDifficulty {
		return NewInvalidRequestError("difficulty must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, r.Difficulty)
	}
	if r.Count < 1 || r.Count > MaxBatchCount {
		return NewInvalidRequestError("count must be between 1 and %d, got %d", MaxBatchCount, r.Count)
	}
	return nil
}

// GeneratedQuizItem is a validated quiz produced by the model. It has no
// identifier until the store assigns one.
type GeneratedQuizItem struct {
	Question      string       `json:"question"`
	OptionA       string       `json:"option_a"`
	OptionB       string       `json:"option_b"`
	OptionC       string       `json:"option_c"`
	OptionD       string       `json:"option_d"`
	CorrectAnswer AnswerLetter `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Topic         string       `json:"topic"`
	Difficulty    int          `json:"difficulty"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// BatchFailure records a batch position whose generation did not succeed.
type BatchFailure struct {
	Index int
	Err   error
}

// BatchResult holds every position of a batch either as an item or a failure.
type BatchResult struct {
	Items    []GeneratedQuizItem
	Failures []BatchFailure
}

// Requested is the number of positions the batch covered.
func (r *BatchResult) Requested() int {
	return len(r.Items) + len(r.Failures)
}

// QuizGenerator produces a single quiz item with one backend call.
type QuizGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedQuizItem, error)
}
