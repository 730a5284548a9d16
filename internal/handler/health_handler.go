package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
	"quiz-ai/internal/service"
)

const aiCheckTimeout = 30 * time.Second

type HealthHandler struct {
	checker service.ConnectionChecker
	now     func() time.Time
}

func NewHealthHandler(checker service.ConnectionChecker) *HealthHandler {
	return &HealthHandler{checker: checker, now: time.Now}
}

// Health godoc
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Timestamp: h.now().UTC()})
}

// AIHealth godoc
// @Summary Language model connectivity
// @Description Makes one small model call to prove the backend and credential work
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health/ai [get]
func (h *HealthHandler) AIHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), aiCheckTimeout)
	defer cancel()

	reply, err := h.checker.CheckConnection(ctx)
	if err != nil {
		logger.Get().Warn("Language model connection check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{
			Status:    "error",
			Timestamp: h.now().UTC(),
			Error:     err.Error(),
		})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Timestamp: h.now().UTC(), Response: reply})
}
