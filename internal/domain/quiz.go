package domain

import (
	"context"
	"fmt"
	"time"
)

// Quiz is a stored multiple choice quiz.
type Quiz struct {
	ID            string
	Topic         string
	Question      string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer AnswerLetter
	Explanation   string
	Difficulty    int
	GeneratedAt   *time.Time
	CreatedAt     time.Time
}

// NewQuizFromGenerated copies every field of a generated item into a Quiz
// that is ready to be saved.
func NewQuizFromGenerated(item *GeneratedQuizItem) *Quiz {
	generatedAt := item.GeneratedAt
	return &Quiz{
		Topic:         item.Topic,
		Question:      item.Question,
		OptionA:       item.OptionA,
		OptionB:       item.OptionB,
		OptionC:       item.OptionC,
		OptionD:       item.OptionD,
		CorrectAnswer: item.CorrectAnswer,
		Explanation:   item.Explanation,
		Difficulty:    item.Difficulty,
		GeneratedAt:   &generatedAt,
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	required := []struct{ name, value string }{
		{"topic", q.Topic},
		{"question", q.Question},
		{"option_a", q.OptionA},
		{"option_b", q.OptionB},
		{"option_c", q.OptionC},
		{"option_d", q.OptionD},
	}
	for _, f := range required {
		if f.value == "" {
			return NewInvalidInputError(fmt.Sprintf("%s is required", f.name))
		}
	}
	if !q.CorrectAnswer.Valid() {
		return NewInvalidInputError("correct_answer must be one of A, B, C, D")
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return NewInvalidInputError(fmt.Sprintf("difficulty must be between %d and %d", MinDifficulty, MaxDifficulty))
	}
	return nil
}

// ExplanationOrDefault falls back to naming the correct letter.
func (q *Quiz) ExplanationOrDefault() string {
	if q.Explanation != "" {
		return q.Explanation
	}
	return fmt.Sprintf("The correct answer is %s.", q.CorrectAnswer)
}

// QuizFilter narrows quiz listings. Zero values mean "any".
type QuizFilter struct {
	Topic      string
	Difficulty int
	Limit      int
	Offset     int
}

// TopicSummary is a topic with the number of stored quizzes.
type TopicSummary struct {
	Topic string `json:"topic" db:"topic"`
	Count int    `json:"count" db:"count"`
}

// Answer is one submitted answer to a stored quiz.
type Answer struct {
	ID             string
	UserID         string
	QuizID         string
	SelectedAnswer AnswerLetter
	IsCorrect      bool
	AnsweredAt     time.Time
}

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz assigns an ID and persists the quiz.
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	// GetQuizByID returns nil, nil when the quiz does not exist.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	ListQuizzes(ctx context.Context, filter QuizFilter) ([]*Quiz, error)
	// GetRandomQuiz returns nil, nil when nothing matches.
	GetRandomQuiz(ctx context.Context, filter QuizFilter) (*Quiz, error)
	ListTopics(ctx context.Context) ([]TopicSummary, error)
}

// AnswerRepository defines the interface for answer history persistence
type AnswerRepository interface {
	SaveAnswer(ctx context.Context, answer *Answer) error
	GetUserStats(ctx context.Context, userID string) (*UserStats, error)
	GetUserHistory(ctx context.Context, userID string, limit, offset int) ([]HistoryEntry, int, error)
	GetTopicStats(ctx context.Context, userID string) ([]TopicStats, error)
}
