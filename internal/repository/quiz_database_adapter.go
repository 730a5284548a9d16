package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/repository/models"
	"quiz-ai/internal/util"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

const quizColumns = `id "id",
		topic "topic",
		question "question",
		option_a "option_a",
		option_b "option_b",
		option_c "option_c",
		option_d "option_d",
		correct_answer "correct_answer",
		explanation "explanation",
		difficulty "difficulty",
		generated_at "generated_at",
		created_at "created_at"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db      DBTX
	dialect Dialect
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db, dialect: DialectFor(db.DriverName())}
}

// SaveQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	modelQuiz := toModelQuiz(quiz)
	modelQuiz.ID = util.NewULID()
	modelQuiz.CreatedAt = time.Now().UTC()

	query := a.dialect.Rebind(`INSERT INTO quizzes (
		id, topic, question, option_a, option_b, option_c, option_d,
		correct_answer, explanation, difficulty, generated_at, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := GetExecutor(ctx, a.db).ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.Topic,
		modelQuiz.Question,
		modelQuiz.OptionA,
		modelQuiz.OptionB,
		modelQuiz.OptionC,
		modelQuiz.OptionD,
		modelQuiz.CorrectAnswer,
		modelQuiz.Explanation,
		modelQuiz.Difficulty,
		modelQuiz.GeneratedAt,
		modelQuiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := a.dialect.Rebind(`SELECT ` + quizColumns + ` FROM quizzes WHERE id = ?`)

	err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// ListQuizzes implements domain.QuizRepository. Newest quizzes come first.
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, filter domain.QuizFilter) ([]*domain.Quiz, error) {
	where, args := quizWhere(filter)
	page, pageArgs := a.dialect.Page(normalizeLimit(filter.Limit), max(filter.Offset, 0))
	query := a.dialect.Rebind(`SELECT ` + quizColumns + ` FROM quizzes` + where + ` ORDER BY created_at DESC ` + page)

	var rows []models.Quiz
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query, append(args, pageArgs...)...); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}

// GetRandomQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetRandomQuiz(ctx context.Context, filter domain.QuizFilter) (*domain.Quiz, error) {
	where, args := quizWhere(filter)
	query := a.dialect.Rebind(`SELECT ` + quizColumns + ` FROM quizzes` + where +
		` ORDER BY ` + a.dialect.RandomOrder() + ` ` + a.dialect.FirstRow())

	var modelQuiz models.Quiz
	if err := GetExecutor(ctx, a.db).GetContext(ctx, &modelQuiz, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get random quiz: %w", err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// ListTopics implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListTopics(ctx context.Context) ([]domain.TopicSummary, error) {
	query := `SELECT topic "topic", COUNT(*) "count" FROM quizzes GROUP BY topic ORDER BY topic`

	var rows []models.TopicCount
	if err := GetExecutor(ctx, a.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	topics := make([]domain.TopicSummary, 0, len(rows))
	for _, r := range rows {
		topics = append(topics, domain.TopicSummary{Topic: r.Topic, Count: r.Count})
	}
	return topics, nil
}

func quizWhere(filter domain.QuizFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.Topic != "" {
		conds = append(conds, "topic = ?")
		args = append(args, filter.Topic)
	}
	if filter.Difficulty > 0 {
		conds = append(conds, "difficulty = ?")
		args = append(args, filter.Difficulty)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

func toModelQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:            q.ID,
		Topic:         q.Topic,
		Question:      q.Question,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectAnswer: string(q.CorrectAnswer),
		Explanation:   util.StringToNullString(q.Explanation),
		Difficulty:    q.Difficulty,
		GeneratedAt:   models.NewNullTime(q.GeneratedAt),
		CreatedAt:     q.CreatedAt,
	}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:            m.ID,
		Topic:         m.Topic,
		Question:      m.Question,
		OptionA:       m.OptionA,
		OptionB:       m.OptionB,
		OptionC:       m.OptionC,
		OptionD:       m.OptionD,
		CorrectAnswer: domain.AnswerLetter(m.CorrectAnswer),
		Explanation:   util.NullStringValue(m.Explanation),
		Difficulty:    m.Difficulty,
		GeneratedAt:   m.GeneratedAt.Ptr(),
		CreatedAt:     m.CreatedAt,
	}
}
