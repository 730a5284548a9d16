package models

import (
	"database/sql"
	"time"
)

// Quiz is a row of the quizzes table.
type Quiz struct {
	ID            string         `db:"id"`
	Topic         string         `db:"topic"`
	Question      string         `db:"question"`
	OptionA       string         `db:"option_a"`
	OptionB       string         `db:"option_b"`
	OptionC       string         `db:"option_c"`
	OptionD       string         `db:"option_d"`
	CorrectAnswer string         `db:"correct_answer"`
	Explanation   sql.NullString `db:"explanation"`
	Difficulty    int            `db:"difficulty"`
	GeneratedAt   NullTime       `db:"generated_at"`
	CreatedAt     time.Time      `db:"created_at"`
}

// TopicCount is one row of the topic listing.
type TopicCount struct {
	Topic string `db:"topic"`
	Count int    `db:"count"`
}

// UserAnswer is a row of the user_answers table.
type UserAnswer struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	QuizID         string    `db:"quiz_id"`
	SelectedAnswer string    `db:"selected_answer"`
	IsCorrect      bool      `db:"is_correct"`
	AnsweredAt     time.Time `db:"answered_at"`
}

// HistoryRow joins an answer with its quiz.
type HistoryRow struct {
	ID             string    `db:"id"`
	QuizID         string    `db:"quiz_id"`
	Topic          string    `db:"topic"`
	Question       string    `db:"question"`
	SelectedAnswer string    `db:"selected_answer"`
	CorrectAnswer  string    `db:"correct_answer"`
	IsCorrect      bool      `db:"is_correct"`
	Difficulty     int       `db:"difficulty"`
	AnsweredAt     time.Time `db:"answered_at"`
}

// AnswerAggregate holds counts and date bounds over a set of answers.
type AnswerAggregate struct {
	Topic   string        `db:"topic"`
	Total   int           `db:"total"`
	Correct sql.NullInt64 `db:"correct"`
	First   NullTime      `db:"first_at"`
	Last    NullTime      `db:"last_at"`
}
