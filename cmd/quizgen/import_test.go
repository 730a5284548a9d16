package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-ai/internal/domain"
)

type recordingRepo struct {
	domain.QuizRepository
	saved []*domain.Quiz
	err   error
}

func (r *recordingRepo) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if r.err != nil {
		return r.err
	}
	quiz.ID = "id"
	r.saved = append(r.saved, quiz)
	return nil
}

func TestImportQuizzes(t *testing.T) {
	input := `[
		{"topic":"Go","question":"Q1","option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":"B","explanation":"e","difficulty":2},
		{"topic":"Go","question":"","option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":"B"},
		{"topic":"SQL","question":"Q3","option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":"D"}
	]`
	repo := &recordingRepo{}

	saved, skipped, err := importQuizzes(context.Background(), strings.NewReader(input), repo)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.Equal(t, 1, skipped)
	require.Len(t, repo.saved, 2)
	assert.Equal(t, 2, repo.saved[0].Difficulty)
	assert.Equal(t, domain.MinDifficulty, repo.saved[1].Difficulty)
	assert.NotNil(t, repo.saved[1].GeneratedAt)
}

func TestImportQuizzes_Errors(t *testing.T) {
	_, _, err := importQuizzes(context.Background(), strings.NewReader("{"), &recordingRepo{})
	assert.Error(t, err)

	input := `[{"topic":"Go","question":"Q","option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":"A"}]`
	_, _, err = importQuizzes(context.Background(), strings.NewReader(input), &recordingRepo{err: errors.New("locked")})
	assert.ErrorContains(t, err, "locked")
}
