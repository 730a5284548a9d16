package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-ai/internal/domain"
)

func TestAnswerDatabaseAdapter_SaveAnswer(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerDatabaseAdapter(db)

	answer := &domain.Answer{UserID: "u1", QuizID: "q1", SelectedAnswer: domain.AnswerA, IsCorrect: true}
	mock.ExpectExec(`INSERT INTO user_answers`).
		WithArgs(sqlmock.AnyArg(), "u1", "q1", "A", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SaveAnswer(context.Background(), answer))
	assert.NotEmpty(t, answer.ID)
	assert.False(t, answer.AnsweredAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerDatabaseAdapter_GetUserStats(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerDatabaseAdapter(db)

	t.Run("WithAnswers", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"total", "correct", "first_at", "last_at"}).
			AddRow(3, 2, "2026-10-01 10:00:00+00:00", "2026-10-18 10:00:00+00:00")
		mock.ExpectQuery(`FROM user_answers ua\s+WHERE ua.user_id = \?`).
			WithArgs("u1").
			WillReturnRows(rows)

		stats, err := repo.GetUserStats(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalAnswers)
		assert.Equal(t, 2, stats.CorrectAnswers)
		assert.Equal(t, 66.67, stats.AccuracyPercentage)
		require.NotNil(t, stats.FirstQuizDate)
		assert.Equal(t, 1, stats.FirstQuizDate.Day())
		require.NotNil(t, stats.LastQuizDate)
	})

	t.Run("NoAnswers", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"total", "correct", "first_at", "last_at"}).
			AddRow(0, nil, nil, nil)
		mock.ExpectQuery(`FROM user_answers ua`).
			WithArgs("u2").
			WillReturnRows(rows)

		stats, err := repo.GetUserStats(context.Background(), "u2")
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalAnswers)
		assert.Equal(t, 0, stats.CorrectAnswers)
		assert.Zero(t, stats.AccuracyPercentage)
		assert.Nil(t, stats.FirstQuizDate)
		assert.Nil(t, stats.LastQuizDate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerDatabaseAdapter_GetUserHistory(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerDatabaseAdapter(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM user_answers WHERE user_id = \?`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`JOIN quizzes q ON q.id = ua.quiz_id\s+WHERE ua.user_id = \?\s+ORDER BY ua.answered_at DESC LIMIT \? OFFSET \?`).
		WithArgs("u1", 20, 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "quiz_id", "topic", "question", "selected_answer", "correct_answer", "is_correct", "difficulty", "answered_at",
		}).AddRow("a1", "q1", "Go", "Q?", "B", "C", false, 2, now))

	entries, total, err := repo.GetUserHistory(context.Background(), "u1", 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AnswerB, entries[0].SelectedAnswer)
	assert.Equal(t, domain.AnswerC, entries[0].CorrectAnswer)
	assert.False(t, entries[0].IsCorrect)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerDatabaseAdapter_GetTopicStats(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerDatabaseAdapter(db)
	first := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"topic", "total", "correct", "first_at", "last_at"}).
		AddRow("Go", 3, 1, first, first).
		AddRow("SQL", 1, 1, first, first)
	mock.ExpectQuery(`GROUP BY q.topic\s+ORDER BY COUNT\(\*\) DESC`).
		WithArgs("u1").
		WillReturnRows(rows)

	stats, err := repo.GetTopicStats(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Go", stats[0].Topic)
	assert.Equal(t, 33.33, stats[0].AccuracyPercentage)
	assert.Equal(t, 100.0, stats[1].AccuracyPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerDatabaseAdapter_GetTopicStats_Error(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAnswerDatabaseAdapter(db)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(`GROUP BY q.topic`).WillReturnError(dbErr)

	_, err := repo.GetTopicStats(context.Background(), "u1")
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccuracy(t *testing.T) {
	assert.Zero(t, accuracy(0, 0))
	assert.Equal(t, 50.0, accuracy(1, 2))
	assert.Equal(t, 66.67, accuracy(2, 3))
}
