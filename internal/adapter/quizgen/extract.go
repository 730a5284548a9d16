package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quiz-ai/internal/domain"
)

var errNoJSONObject = errors.New("no JSON object found in response")

// rawQuizItem mirrors the fields the model is asked to return.
type rawQuizItem struct {
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// stripThinking drops a leading <think>...</think> block emitted by
// reasoning models.
func stripThinking(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return s[:start] + s[end+len("</think>"):]
}

// extractJSONObject returns the first balanced {...} in text that is valid
// JSON. Braces inside string literals are ignored, so explanations containing
// braces do not end the object early.
func extractJSONObject(text string) (string, error) {
	text = stripThinking(text)

	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		// An unclosed brace in surrounding prose may still enclose a valid
		// object further on.
		end, ok := matchBrace(text, start)
		if !ok {
			continue
		}
		if candidate := text[start : end+1]; json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", errNoJSONObject
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(text string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// parseQuizItem runs both parse stages: locate the object, then check every
// required field.
func parseQuizItem(text string) (*domain.GeneratedQuizItem, error) {
	candidate, err := extractJSONObject(text)
	if err != nil {
		return nil, domain.NewMalformedResponseError("", err)
	}

	var raw rawQuizItem
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, domain.NewMalformedResponseError("", fmt.Errorf("decode quiz object: %w", err))
	}

	required := []struct{ name, value string }{
		{"question", raw.Question},
		{"option_a", raw.OptionA},
		{"option_b", raw.OptionB},
		{"option_c", raw.OptionC},
		{"option_d", raw.OptionD},
		{"correct_answer", raw.CorrectAnswer},
		{"explanation", raw.Explanation},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, domain.NewMalformedResponseError(f.name, errors.New("missing required field"))
		}
	}

	letter := domain.AnswerLetter(strings.TrimSpace(raw.CorrectAnswer))
	if !letter.Valid() {
		return nil, domain.NewMalformedResponseError("correct_answer",
			fmt.Errorf("must be one of A, B, C, D, got %q", raw.CorrectAnswer))
	}

	return &domain.GeneratedQuizItem{
		Question:      raw.Question,
		OptionA:       raw.OptionA,
		OptionB:       raw.OptionB,
		OptionC:       raw.OptionC,
		OptionD:       raw.OptionD,
		CorrectAnswer: letter,
		Explanation:   raw.Explanation,
	}, nil
}
