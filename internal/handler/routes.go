package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-ai/internal/middleware"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Quiz      *QuizHandler
	Auth      *AuthHandler
	User      *UserHandler
	Health    *HealthHandler
	Validator middleware.TokenValidator
}

// RegisterRoutes mounts the API under /api. Static quiz paths are
// registered before /quiz/:id.
func RegisterRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api")
	protected := middleware.Protected(h.Validator)
	validation := middleware.NewValidationMiddleware()

	api.Get("/health", h.Health.Health)
	api.Get("/health/ai", h.Health.AIHealth)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", h.Auth.Logout)
	auth.Get("/me", protected, h.Auth.Me)

	quiz := api.Group("/quiz")
	quiz.Get("/", h.Quiz.ListQuizzes)
	quiz.Get("/topics/list", h.Quiz.ListTopics)
	quiz.Get("/random/get", h.Quiz.GetRandomQuiz)
	quiz.Post("/generate", protected, h.Quiz.GenerateQuiz)
	quiz.Post("/generate-batch", protected, h.Quiz.GenerateQuizBatch)
	quiz.Get("/:id", validation.ValidateQuizID(), h.Quiz.GetQuiz)
	quiz.Post("/:id/answer", protected, validation.ValidateQuizID(), h.Quiz.SubmitAnswer)

	user := api.Group("/user", protected)
	user.Get("/stats", h.User.GetStats)
	user.Get("/history", h.User.GetHistory)
	user.Get("/topic-stats", h.User.GetTopicStats)
	user.Put("/profile", h.User.UpdateProfile)
}
