package handler

import (
	"github.com/gofiber/fiber/v2"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/validation"
)

// parseBody decodes the JSON body into req and validates its tags.
func parseBody(c *fiber.Ctx, v *validation.Validator, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	return v.Validate(req)
}

// parseQuery decodes the query string into req and validates its tags.
func parseQuery(c *fiber.Ctx, v *validation.Validator, req interface{}) error {
	if err := c.QueryParser(req); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}
	return v.Validate(req)
}
