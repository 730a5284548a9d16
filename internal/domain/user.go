package domain

import (
	"context"
	"time"
)

// User represents a domain user object
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStats aggregates a user's answer history.
type UserStats struct {
	UserID             string
	TotalAnswers       int
	CorrectAnswers     int
	AccuracyPercentage float64
	FirstQuizDate      *time.Time
	LastQuizDate       *time.Time
}

// HistoryEntry is one answered quiz in a user's history.
type HistoryEntry struct {
	ID             string
	QuizID         string
	Topic          string
	Question       string
	SelectedAnswer AnswerLetter
	CorrectAnswer  AnswerLetter
	IsCorrect      bool
	Difficulty     int
	AnsweredAt     time.Time
}

// TopicStats is a per-topic accuracy summary for one user.
type TopicStats struct {
	Topic              string
	TotalAttempts      int
	CorrectAttempts    int
	AccuracyPercentage float64
	FirstAttempt       *time.Time
	LastAttempt        *time.Time
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	// GetUserByUsernameOrEmail returns nil, nil when no user matches.
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, userID string) (*User, error)
	// IsEmailTaken reports whether another user than excludeUserID owns email.
	IsEmailTaken(ctx context.Context, email, excludeUserID string) (bool, error)
	UpdateEmail(ctx context.Context, userID, email string) error
}
