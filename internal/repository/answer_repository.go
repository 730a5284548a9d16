package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/repository/models"
	"quiz-ai/internal/util"
)

const correctSum = `SUM(CASE WHEN ua.is_correct = 1 THEN 1 ELSE 0 END)`

// AnswerDatabaseAdapter implements domain.AnswerRepository using sqlx.DB
type AnswerDatabaseAdapter struct {
	db      DBTX
	dialect Dialect
}

// NewAnswerDatabaseAdapter creates a new instance of AnswerDatabaseAdapter
func NewAnswerDatabaseAdapter(db *sqlx.DB) domain.AnswerRepository {
	return &AnswerDatabaseAdapter{db: db, dialect: DialectFor(db.DriverName())}
}

// SaveAnswer implements domain.AnswerRepository
func (a *AnswerDatabaseAdapter) SaveAnswer(ctx context.Context, answer *domain.Answer) error {
	if answer == nil {
		return fmt.Errorf("cannot save nil answer")
	}
	row := models.UserAnswer{
		ID:             util.NewULID(),
		UserID:         answer.UserID,
		QuizID:         answer.QuizID,
		SelectedAnswer: string(answer.SelectedAnswer),
		IsCorrect:      answer.IsCorrect,
		AnsweredAt:     answer.AnsweredAt,
	}
	if row.AnsweredAt.IsZero() {
		row.AnsweredAt = time.Now().UTC()
	}

	query := a.dialect.Rebind(`INSERT INTO user_answers (
		id, user_id, quiz_id, selected_answer, is_correct, answered_at
	) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		row.ID, row.UserID, row.QuizID, row.SelectedAnswer, row.IsCorrect, row.AnsweredAt)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}

	answer.ID = row.ID
	answer.AnsweredAt = row.AnsweredAt
	return nil
}

// GetUserStats implements domain.AnswerRepository. A user without answers
// gets zero counts and nil dates.
func (a *AnswerDatabaseAdapter) GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	query := a.dialect.Rebind(`SELECT
		COUNT(*) "total",
		` + correctSum + ` "correct",
		MIN(ua.answered_at) "first_at",
		MAX(ua.answered_at) "last_at"
	FROM user_answers ua
	WHERE ua.user_id = ?`)

	var agg models.AnswerAggregate
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &agg, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get stats for user %s: %w", userID, err)
	}

	correct := int(agg.Correct.Int64)
	return &domain.UserStats{
		UserID:             userID,
		TotalAnswers:       agg.Total,
		CorrectAnswers:     correct,
		AccuracyPercentage: accuracy(correct, agg.Total),
		FirstQuizDate:      agg.First.Ptr(),
		LastQuizDate:       agg.Last.Ptr(),
	}, nil
}

// GetUserHistory implements domain.AnswerRepository. It returns the newest
// answers first together with the total number of answers.
func (a *AnswerDatabaseAdapter) GetUserHistory(ctx context.Context, userID string, limit, offset int) ([]domain.HistoryEntry, int, error) {
	exec := GetExecutor(ctx, a.db)

	var total int
	countQuery := a.dialect.Rebind(`SELECT COUNT(*) FROM user_answers WHERE user_id = ?`)
	if err := exec.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count history for user %s: %w", userID, err)
	}

	page, pageArgs := a.dialect.Page(normalizeLimit(limit), max(offset, 0))
	query := a.dialect.Rebind(`SELECT
		ua.id "id",
		ua.quiz_id "quiz_id",
		q.topic "topic",
		q.question "question",
		ua.selected_answer "selected_answer",
		q.correct_answer "correct_answer",
		ua.is_correct "is_correct",
		q.difficulty "difficulty",
		ua.answered_at "answered_at"
	FROM user_answers ua
	JOIN quizzes q ON q.id = ua.quiz_id
	WHERE ua.user_id = ?
	ORDER BY ua.answered_at DESC ` + page)

	var rows []models.HistoryRow
	args := append([]interface{}{userID}, pageArgs...)
	if err := exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to get history for user %s: %w", userID, err)
	}

	entries := make([]domain.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.HistoryEntry{
			ID:             r.ID,
			QuizID:         r.QuizID,
			Topic:          r.Topic,
			Question:       r.Question,
			SelectedAnswer: domain.AnswerLetter(r.SelectedAnswer),
			CorrectAnswer:  domain.AnswerLetter(r.CorrectAnswer),
			IsCorrect:      r.IsCorrect,
			Difficulty:     r.Difficulty,
			AnsweredAt:     r.AnsweredAt,
		})
	}
	return entries, total, nil
}

// GetTopicStats implements domain.AnswerRepository. Topics are ordered by
// number of attempts, most first.
func (a *AnswerDatabaseAdapter) GetTopicStats(ctx context.Context, userID string) ([]domain.TopicStats, error) {
	query := a.dialect.Rebind(`SELECT
		q.topic "topic",
		COUNT(*) "total",
		` + correctSum + ` "correct",
		MIN(ua.answered_at) "first_at",
		MAX(ua.answered_at) "last_at"
	FROM user_answers ua
	JOIN quizzes q ON q.id = ua.quiz_id
	WHERE ua.user_id = ?
	GROUP BY q.topic
	ORDER BY COUNT(*) DESC, q.topic`)

	var rows []models.AnswerAggregate
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get topic stats for user %s: %w", userID, err)
	}

	stats := make([]domain.TopicStats, 0, len(rows))
	for _, r := range rows {
		correct := int(r.Correct.Int64)
		stats = append(stats, domain.TopicStats{
			Topic:              r.Topic,
			TotalAttempts:      r.Total,
			CorrectAttempts:    correct,
			AccuracyPercentage: accuracy(correct, r.Total),
			FirstAttempt:       r.First.Ptr(),
			LastAttempt:        r.Last.Ptr(),
		})
	}
	return stats, nil
}

// accuracy is the percentage of correct answers rounded to two decimals.
func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)*10000/float64(total)) / 100
}
