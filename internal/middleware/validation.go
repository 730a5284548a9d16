package middleware

import (
	"github.com/gofiber/fiber/v2"

	"quiz-ai/internal/validation"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuizID rejects :id path parameters that are not ULIDs.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := vm.validator.ValidateQuizID(c.Params("id")); len(errs) > 0 {
			return errs // This will be handled by ErrorHandler middleware
		}
		return c.Next()
	}
}
