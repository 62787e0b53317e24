package handler

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/middleware"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AttemptHandler exposes quiz submission and the learner dashboard.
type AttemptHandler struct {
	attemptService service.AttemptService
}

// NewAttemptHandler creates a new instance of AttemptHandler.
func NewAttemptHandler(attemptService service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// SubmitAttempt handles POST /api/quizzes/:id/attempts.
func (h *AttemptHandler) SubmitAttempt(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return domain.NewUnauthorizedError("authentication required")
	}

	quizID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.attemptService.SubmitAttempt(c.Context(), claims.UserID, quizID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetDashboard handles GET /api/dashboard.
func (h *AttemptHandler) GetDashboard(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return domain.NewUnauthorizedError("authentication required")
	}

	resp, err := h.attemptService.GetUserDashboard(c.Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListUserScores handles GET /api/admin/users/:id/scores.
func (h *AttemptHandler) ListUserScores(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	scores, err := h.attemptService.ListUserScores(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"scores": scores})
}
