package quizgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-ai/internal/domain"
)

const validItemJSON = `{"question":"Q","option_a":"A1","option_b":"B1","option_c":"C1","option_d":"D1","correct_answer":"B","explanation":"x"}`

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} Enjoy!`, `{"a":1}`},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"nested object", `x {"a":{"b":2},"c":3} y`, `{"a":{"b":2},"c":3}`},
		{"brace inside string", `{"e":"set {x | x > 0}"} trailing }`, `{"e":"set {x | x > 0}"}`},
		{"escaped quote in string", `{"e":"say \"}\" now"}`, `{"e":"say \"}\" now"}`},
		{"first object wins", `{"a":1} {"b":2}`, `{"a":1}`},
		{"skips invalid candidate", `{not json} {"a":1}`, `{"a":1}`},
		{"think block stripped", `<think>maybe {"a":0}</think>{"a":1}`, `{"a":1}`},
		{"unclosed brace in prose", "Here is the quiz you asked for { see below:\n```json\n" + validItemJSON + "\n```", validItemJSON},
		{"unclosed quote in prose", `Sure {"note} ` + validItemJSON, validItemJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONObject_NotFound(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"unterminated": 1`, "} backwards {"} {
		_, err := extractJSONObject(in)
		assert.ErrorIs(t, err, errNoJSONObject, in)
	}
}

func TestParseQuizItem(t *testing.T) {
	item, err := parseQuizItem("Sure!\n" + validItemJSON)
	require.NoError(t, err)
	assert.Equal(t, "Q", item.Question)
	assert.Equal(t, domain.AnswerB, item.CorrectAnswer)
	assert.Equal(t, "x", item.Explanation)
}

func TestParseQuizItem_TrimsLetter(t *testing.T) {
	item, err := parseQuizItem(`{"question":"Q","option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":" D ","explanation":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerD, item.CorrectAnswer)
}

func TestParseQuizItem_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		field string
	}{
		{"no json", "I cannot help with that.", ""},
		{"wrong type", `{"question":1}`, ""},
		{"missing question", `{"option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":"A","explanation":"x"}`, "question"},
		{"blank option", `{"question":"Q","option_a":"a","option_b":"  ","option_c":"c","option_d":"d","correct_answer":"A","explanation":"x"}`, "option_b"},
		{"missing explanation", `{"question":"Q","option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":"A"}`, "explanation"},
		{"letter E", `{"question":"Q","option_a":"A1","option_b":"B1","option_c":"C1","option_d":"D1","correct_answer":"E","explanation":"x"}`, "correct_answer"},
		{"lowercase letter", `{"question":"Q","option_a":"a","option_b":"b","option_c":"c","option_d":"d","correct_answer":"a","explanation":"x"}`, "correct_answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseQuizItem(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)

			var genErr *domain.GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.field, genErr.Field)
		})
	}
}
