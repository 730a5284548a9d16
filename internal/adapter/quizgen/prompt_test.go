package quizgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quiz-ai/internal/domain"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		difficulty int
		want       domain.ModelTier
	}{
		{1, domain.TierStandard},
		{2, domain.TierStandard},
		{3, domain.TierHigh},
		{4, domain.TierHigh},
		{5, domain.TierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.difficulty), "difficulty %d", tt.difficulty)
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("photosynthesis", 3)
	b := BuildPrompt("photosynthesis", 3)
	assert.Equal(t, a, b)
}

func TestBuildPrompt_TierBoundary(t *testing.T) {
	low := BuildPrompt("world history", 2)
	high := BuildPrompt("world history", 3)

	assert.Equal(t, domain.TierStandard, low.Tier)
	assert.Equal(t, domain.TierHigh, high.Tier)
	assert.NotEqual(t, low.System, high.System)
	assert.Contains(t, high.System, "accuracy")
}

func TestBuildPrompt_Content(t *testing.T) {
	p := BuildPrompt("Go channels", 4)

	assert.Contains(t, p.User, "Topic: Go channels")
	assert.Contains(t, p.User, "Difficulty: 4/5")
	assert.Contains(t, p.User, "written in Japanese")
	assert.Contains(t, p.User, "200-300 characters")
	for _, field := range []string{"question", "option_a", "option_b", "option_c", "option_d", "correct_answer", "explanation"} {
		assert.Contains(t, p.User, `"`+field+`"`)
		assert.Contains(t, p.System, field)
	}
}

func TestPromptBuilder_Language(t *testing.T) {
	p := PromptBuilder{Language: "English"}.Build("Go", 1)
	assert.Contains(t, p.User, "written in English")
	assert.Equal(t, domain.TierStandard, p.Tier)
}
