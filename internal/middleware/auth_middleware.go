package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quiz-ai/internal/dto"
	"quiz-ai/internal/logger"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	TokenCookie         = "token"
	UserIDKey           = "userID"   // Key for storing UserID in fiber.Ctx locals
	UsernameKey         = "username" // Key for storing Username in fiber.Ctx locals
)

// TokenValidator validates a signed session token.
type TokenValidator interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// tokenFromRequest prefers the session cookie over the Authorization header.
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(TokenCookie); token != "" {
		return token
	}
	authHeader := c.Get(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, BearerSchema) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
}

// Protected is a middleware function that protects routes by requiring a valid JWT.
// It sets the user ID and username in the context locals.
func Protected(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_TOKEN",
				Message: "Authentication token is required",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := validator.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Invalid or expired token",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(UsernameKey, claims.Username)

		return c.Next()
	}
}

// UserID returns the authenticated user ID, or "" on unprotected routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

// Username returns the authenticated username, or "".
func Username(c *fiber.Ctx) string {
	name, _ := c.Locals(UsernameKey).(string)
	return name
}
