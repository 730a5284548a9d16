package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RegisterRequest represents the request body for registration.
// @Description Request body for user registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest accepts a username or an email in Username.
// @Description Request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes the account email.
type UpdateProfileRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// AuthResponse is returned after register and login. The token is also set
// as an httpOnly cookie.
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// MeResponse wraps the current user.
type MeResponse struct {
	User UserResponse `json:"user"`
}

// ProfileResponse is returned after a profile update.
type ProfileResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// Pagination defines parameters for paginated requests.
type Pagination struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// UserStatsResponse aggregates a user's answers.
type UserStatsResponse struct {
	Stats UserStats `json:"stats"`
}

type UserStats struct {
	UserID             string     `json:"user_id"`
	Username           string     `json:"username"`
	TotalAnswers       int        `json:"total_answers"`
	CorrectAnswers     int        `json:"correct_answers"`
	AccuracyPercentage float64    `json:"accuracy_percentage"`
	FirstQuizDate      *time.Time `json:"first_quiz_date"`
	LastQuizDate       *time.Time `json:"last_quiz_date"`
}

// HistoryItem is one answered quiz.
type HistoryItem struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id"`
	Topic          string    `json:"topic"`
	Question       string    `json:"question"`
	SelectedAnswer string    `json:"selected_answer"`
	CorrectAnswer  string    `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
	Difficulty     int       `json:"difficulty"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// HistoryResponse is a page of the answer history.
type HistoryResponse struct {
	History    []HistoryItem `json:"history"`
	Pagination PageInfo      `json:"pagination"`
}

// TopicStat is per-topic accuracy for one user.
type TopicStat struct {
	Topic              string     `json:"topic"`
	TotalAttempts      int        `json:"total_attempts"`
	CorrectAttempts    int        `json:"correct_attempts"`
	AccuracyPercentage float64    `json:"accuracy_percentage"`
	FirstAttempt       *time.Time `json:"first_attempt"`
	LastAttempt        *time.Time `json:"last_attempt"`
}

// TopicStatsResponse lists per-topic stats, most attempted first.
type TopicStatsResponse struct {
	TopicStats []TopicStat `json:"topicStats"`
}
