package middleware

import (
	"errors"

	"quiz-master/internal/domain"
	"quiz-master/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// errorResponse is the uniform error body returned by the API.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrNotFound:
		return fiber.StatusNotFound
	case domain.ErrInvalidInput, domain.ErrInvalidOperation:
		return fiber.StatusBadRequest
	case domain.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case domain.ErrForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler maps domain errors to HTTP statuses and hides internal
// details. Wire it as the app-level fiber ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		if status == fiber.StatusInternalServerError {
			logger.Get().Error("request failed",
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.Error(err))
			return c.Status(status).JSON(errorResponse{
				Code:    string(domain.ErrInternal),
				Message: "internal server error",
			})
		}
		return c.Status(status).JSON(errorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errorResponse{
			Code:    string(domain.ErrInternal),
			Message: fiberErr.Message,
		})
	}

	logger.Get().Error("unhandled error",
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Code:    string(domain.ErrInternal),
		Message: "internal server error",
	})
}
