package quizgen

import (
	"fmt"

	"quiz-ai/internal/domain"
)

// HighTierMinDifficulty is the lowest difficulty served by the high tier.
const HighTierMinDifficulty = 3

// DefaultLanguage is the language quizzes are written in unless configured.
const DefaultLanguage = "Japanese"

// Prompt is the pair of instructions sent to the backend for one item.
type Prompt struct {
	System string
	User   string
	Tier   domain.ModelTier
}

const standardSystemText = `You are an excellent educator who is skilled at deepening a learner's understanding.
In quiz explanations do not just state the correct answer: explain the reasoning and background knowledge behind it and why each other option is wrong.
Respond with a single JSON object only, with the fields question, option_a, option_b, option_c, option_d, correct_answer and explanation, all non-empty.
correct_answer must be exactly one of the letters A, B, C or D.`

const highSystemText = `You are an educator of the highest level and hard questions demand complete accuracy.
Avoid any error in mathematical facts, scientific principles and logical reasoning, and never get fundamental theorems or formulas wrong.
Write the most accurate and instructive explanation you can.
Respond with a single JSON object only, with the fields question, option_a, option_b, option_c, option_d, correct_answer and explanation, all non-empty.
correct_answer must be exactly one of the letters A, B, C or D.`

const userTemplate = `Create an educational quiz that meets the following requirements:
- Topic: %s
- Difficulty: %d/5 (1=beginner, 2=elementary, 3=intermediate, 4=upper intermediate, 5=advanced)
- Format: multiple choice with four options
- Requirements: accurate, educational, appropriate for the difficulty, written in %s

The explanation must include:
1. The reason the correct answer is right, with its background knowledge or principle
2. A concrete explanation of why each other option is wrong
3. Points worth remembering and related knowledge
4. A practical application or supplementary note when possible

Keep the explanation to roughly 200-300 characters.

Answer only with JSON in exactly this form:
{
  "question": "question text",
  "option_a": "option A",
  "option_b": "option B",
  "option_c": "option C",
  "option_d": "option D",
  "correct_answer": "A",
  "explanation": "explanation"
}`

// TierFor selects the model tier for a difficulty.
func TierFor(difficulty int) domain.ModelTier {
	if difficulty >= HighTierMinDifficulty {
		return domain.TierHigh
	}
	return domain.TierStandard
}

// PromptBuilder renders prompts in a fixed output language.
type PromptBuilder struct {
	Language string
}

// Build is pure: the same topic and difficulty always give the same Prompt.
func (b PromptBuilder) Build(topic string, difficulty int) Prompt {
	lang := b.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	tier := TierFor(difficulty)
	system := standardSystemText
	if tier == domain.TierHigh {
		system = highSystemText
	}

	return Prompt{
		System: system,
		User:   fmt.Sprintf(userTemplate, topic, difficulty, lang),
		Tier:   tier,
	}
}

// BuildPrompt builds a prompt in the default language.
func BuildPrompt(topic string, difficulty int) Prompt {
	return PromptBuilder{}.Build(topic, difficulty)
}
