package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
	"quiz-ai/internal/middleware"
	"quiz-ai/internal/service"
	"quiz-ai/internal/validation"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
	cookie      CookieOptions
}

func NewAuthHandler(authService service.AuthService, validator *validation.Validator, cookie CookieOptions) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = service.DefaultTokenTTL
	}
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		cookie:      cookie,
	}
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Register creates an account and starts a session.
// @Summary Register
// @Description Creates a user and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token, time.Now().Add(h.cookie.TTL))
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Message: "Registration completed",
		User:    service.ToUserResponse(user),
		Token:   token,
	})
}

// Login starts a session for a username or email.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token, time.Now().Add(h.cookie.TTL))
	return c.JSON(dto.AuthResponse{
		Message: "Logged in",
		User:    service.ToUserResponse(user),
		Token:   token,
	})
}

// Logout clears the session cookie.
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setTokenCookie(c, "", time.Now().Add(-time.Hour))
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}

// Me returns the user of the current session.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.NewUnauthorizedError("Authentication required")
	}

	user, err := h.authService.GetMe(c.UserContext(), userID)
	if err != nil {
		logger.Get().Debug("Session user lookup failed", zap.String("userID", userID), zap.Error(err))
		return err
	}
	return c.JSON(dto.MeResponse{User: service.ToUserResponse(user)})
}
