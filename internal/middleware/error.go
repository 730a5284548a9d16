package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"quiz-ai/internal/domain"
	"quiz-ai/internal/logger"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse represents validation error response
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

// ErrorHandler turns every error returned by a handler into a JSON body.
// Install it through fiber.Config.ErrorHandler.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			logger.Get().Warn("Request validation failed",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(validationErrs)),
			)
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			})
		}

		resp, cause := resolve(err)
		level := zapcore.WarnLevel
		if resp.Status >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		logger.Get().Log(level, "Request failed",
			zap.String("path", c.Path()),
			zap.String("code", resp.Code),
			zap.Int("status", resp.Status),
			zap.Error(cause),
		)
		return c.Status(resp.Status).JSON(resp)
	}
}

// resolve maps err onto the response sent to the client and the error to log.
func resolve(err error) (ErrorResponse, error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		resp := ErrorResponse{Code: string(domainErr.Code), Message: domainErr.Message, Status: status}
		if len(domainErr.Context) > 0 {
			resp.Details = domainErr.Context
		}
		return resp, err
	}

	// Generation failures that reach the transport without a service wrapper.
	var exhausted *domain.RetryExhaustedError
	var genErr *domain.GenerationError
	if errors.As(err, &exhausted) || errors.As(err, &genErr) {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return ErrorResponse{Code: string(domain.CodeInvalidInput), Message: err.Error(), Status: http.StatusBadRequest}, err
		}
		llmErr := domain.NewLLMServiceError(err)
		return ErrorResponse{Code: string(llmErr.Code), Message: llmErr.Message, Status: http.StatusServiceUnavailable}, err
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message, Status: fiberErr.Code}, err
	}

	return ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}, err
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound, domain.CodeQuizNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeInvalidAnswer,
		domain.CodeValidation, domain.CodeMissingField, domain.CodeInvalidFormat, domain.CodeOutOfRange:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeRateLimited:
		return http.StatusTooManyRequests
	case domain.CodeLLMServiceError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
