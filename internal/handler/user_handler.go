package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-ai/internal/dto"
	"quiz-ai/internal/middleware"
	"quiz-ai/internal/service"
	"quiz-ai/internal/validation"
)

// UserHandler serves the signed-in user's statistics and profile.
type UserHandler struct {
	userService service.UserService
	validator   *validation.Validator
}

func NewUserHandler(userService service.UserService, validator *validation.Validator) *UserHandler {
	return &UserHandler{userService: userService, validator: validator}
}

// GetStats godoc
// @Summary Answer statistics
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserStatsResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /user/stats [get]
func (h *UserHandler) GetStats(c *fiber.Ctx) error {
	resp, err := h.userService.GetStats(c.UserContext(), middleware.UserID(c), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetHistory godoc
// @Summary Answer history
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /user/history [get]
func (h *UserHandler) GetHistory(c *fiber.Ctx) error {
	var page dto.Pagination
	if err := parseQuery(c, h.validator, &page); err != nil {
		return err
	}

	resp, err := h.userService.GetHistory(c.UserContext(), middleware.UserID(c), page)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetTopicStats godoc
// @Summary Per-topic accuracy
// @Tags user
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.TopicStatsResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /user/topic-stats [get]
func (h *UserHandler) GetTopicStats(c *fiber.Ctx) error {
	resp, err := h.userService.GetTopicStats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Changes the account email
// @Tags user
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateProfileRequest true "New email"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.userService.UpdateProfile(c.UserContext(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
