package dto

import "time"

// QuizResponse represents a stored quiz in the API response
// @Description Quiz information
type QuizResponse struct {
	ID            string     `json:"id"`
	Topic         string     `json:"topic"`
	Question      string     `json:"question"`
	OptionA       string     `json:"option_a"`
	OptionB       string     `json:"option_b"`
	OptionC       string     `json:"option_c"`
	OptionD       string     `json:"option_d"`
	CorrectAnswer string     `json:"correct_answer,omitempty"`
	Explanation   string     `json:"explanation,omitempty"`
	Difficulty    int        `json:"difficulty"`
	GeneratedAt   *time.Time `json:"generated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// QuizListRequest holds the query parameters of the quiz listing.
type QuizListRequest struct {
	Topic      string `query:"topic" validate:"omitempty,max=100"`
	Difficulty int    `query:"difficulty" validate:"omitempty,min=1,max=5"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int    `query:"offset" validate:"omitempty,min=0"`
}

// QuizListResponse is a page of quizzes.
type QuizListResponse struct {
	Quizzes    []QuizResponse `json:"quizzes"`
	Pagination PageInfo       `json:"pagination"`
}

// PageInfo describes the requested page. Total is only set where counted.
type PageInfo struct {
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
	Total  *int `json:"total,omitempty"`
}

// QuizDetailResponse wraps a single quiz.
type QuizDetailResponse struct {
	Quiz QuizResponse `json:"quiz"`
}

// TopicResponse is a topic with its number of quizzes.
type TopicResponse struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// TopicListResponse lists every topic.
type TopicListResponse struct {
	Topics []TopicResponse `json:"topics"`
}

// AnswerRequest represents a user's answer in the API request
// @Description Request body for answering a quiz
type AnswerRequest struct {
	SelectedAnswer string `json:"selectedAnswer" validate:"required,oneof=A B C D"`
}

// QuizSummary is the short quiz reference returned with an answer result.
type QuizSummary struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Topic    string `json:"topic"`
}

// AnswerResponse represents the result of answering a quiz
type AnswerResponse struct {
	Correct       bool        `json:"correct"`
	CorrectAnswer string      `json:"correctAnswer"`
	Explanation   string      `json:"explanation"`
	Quiz          QuizSummary `json:"quiz"`
}

// GenerateQuizRequest asks for one generated quiz.
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic      string `json:"topic" validate:"required,notblank,max=100"`
	Difficulty int    `json:"difficulty" validate:"omitempty,min=1,max=5"`
}

// GenerateBatchRequest asks for several generated quizzes.
// @Description Request body for generating several quizzes
type GenerateBatchRequest struct {
	Topic      string `json:"topic" validate:"required,notblank,max=100"`
	Difficulty int    `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=10"`
}

// GenerateQuizResponse returns the saved generated quiz.
type GenerateQuizResponse struct {
	Message string       `json:"message"`
	Quiz    QuizResponse `json:"quiz"`
}

// BatchItemError reports one failed batch position (1-based).
type BatchItemError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BatchSummary counts the outcome of a batch.
type BatchSummary struct {
	Requested int `json:"requested"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// GenerateBatchResponse returns every saved quiz and every failure.
type GenerateBatchResponse struct {
	Message string           `json:"message"`
	Quizzes []QuizResponse   `json:"quizzes"`
	Errors  []BatchItemError `json:"errors"`
	Summary BatchSummary     `json:"summary"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
