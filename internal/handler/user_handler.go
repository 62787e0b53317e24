package handler

import (
	"strconv"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/middleware"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UserHandler exposes registration, profile and admin user management.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewInvalidInputError("invalid " + name + " parameter")
	}
	return id, nil
}

// Register handles POST /api/register.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.userService.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetProfile handles GET /api/profile.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return domain.NewUnauthorizedError("authentication required")
	}

	resp, err := h.userService.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateProfile handles PUT /api/profile.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return domain.NewUnauthorizedError("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.userService.UpdateProfile(c.Context(), claims.UserID, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListUsers handles GET /api/admin/users.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	resp, err := h.userService.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteUser handles DELETE /api/admin/users/:id.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return domain.NewUnauthorizedError("authentication required")
	}

	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Context(), claims.UserID, targetID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
