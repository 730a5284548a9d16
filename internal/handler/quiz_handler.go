package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
	"quiz-ai/internal/middleware"
	"quiz-ai/internal/service"
	"quiz-ai/internal/validation"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// ListQuizzes godoc
// @Summary List quizzes
// @Description Returns stored quizzes, newest first
// @Tags quiz
// @Produce json
// @Param topic query string false "Topic"
// @Param difficulty query int false "Difficulty (1-5)"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.QuizListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	var req dto.QuizListRequest
	if err := parseQuery(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.service.ListQuizzes(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Description Returns one quiz by ID
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.service.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizDetailResponse{Quiz: *quiz})
}

// SubmitAnswer godoc
// @Summary Answer a quiz
// @Description Checks the selected option and records it in the user's history
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Quiz ID"
// @Param request body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/{id}/answer [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.service.SubmitAnswer(c.UserContext(), middleware.UserID(c), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListTopics godoc
// @Summary List topics
// @Description Returns every topic with its number of quizzes
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.TopicListResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/topics/list [get]
func (h *QuizHandler) ListTopics(c *fiber.Ctx) error {
	resp, err := h.service.ListTopics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetRandomQuiz godoc
// @Summary Get a random quiz
// @Description Returns a random quiz matching the optional filters
// @Tags quiz
// @Produce json
// @Param topic query string false "Topic"
// @Param difficulty query int false "Difficulty (1-5)"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/random/get [get]
func (h *QuizHandler) GetRandomQuiz(c *fiber.Ctx) error {
	var req dto.QuizListRequest
	if err := parseQuery(c, h.validator, &req); err != nil {
		return err
	}

	quiz, err := h.service.GetRandomQuiz(c.UserContext(), req.Topic, req.Difficulty)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizDetailResponse{Quiz: *quiz})
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Generates one quiz with the language model and stores it
// @Tags generation
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateQuizRequest true "Topic and difficulty"
// @Success 201 {object} dto.GenerateQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quiz/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	logger.Get().Info("Quiz generation requested",
		zap.String("topic", req.Topic),
		zap.Int("difficulty", req.Difficulty),
		zap.String("username", middleware.Username(c)))

	resp, err := h.service.GenerateQuiz(c.UserContext(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GenerateQuizBatch godoc
// @Summary Generate several quizzes
// @Description Generates up to 10 quizzes one after another. Failed positions are reported without failing the request.
// @Tags generation
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GenerateBatchRequest true "Topic, difficulty and count"
// @Success 201 {object} dto.GenerateBatchResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Router /quiz/generate-batch [post]
func (h *QuizHandler) GenerateQuizBatch(c *fiber.Ctx) error {
	var req dto.GenerateBatchRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	logger.Get().Info("Quiz batch generation requested",
		zap.String("topic", req.Topic),
		zap.Int("count", req.Count),
		zap.String("username", middleware.Username(c)))

	resp, err := h.service.GenerateQuizBatch(c.UserContext(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
