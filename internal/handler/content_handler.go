package handler

import (
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/middleware"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ContentHandler exposes the subject, chapter, quiz and question endpoints.
// Reads are available to any authenticated user, writes are admin-only and
// guarded at route registration.
type ContentHandler struct {
	contentService service.ContentService
}

// NewContentHandler creates a new instance of ContentHandler.
func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// --- Subjects ---

// ListSubjects handles GET /api/subjects.
func (h *ContentHandler) ListSubjects(c *fiber.Ctx) error {
	resp, err := h.contentService.ListSubjects(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetSubject handles GET /api/subjects/:id.
func (h *ContentHandler) GetSubject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.contentService.GetSubject(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateSubject handles POST /api/admin/subjects.
func (h *ContentHandler) CreateSubject(c *fiber.Ctx) error {
	var req dto.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.CreateSubject(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateSubject handles PUT /api/admin/subjects/:id.
func (h *ContentHandler) UpdateSubject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.UpdateSubject(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteSubject handles DELETE /api/admin/subjects/:id.
func (h *ContentHandler) DeleteSubject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.contentService.DeleteSubject(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Chapters ---

// ListChapters handles GET /api/subjects/:id/chapters.
func (h *ContentHandler) ListChapters(c *fiber.Ctx) error {
	subjectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.contentService.ListChapters(c.Context(), subjectID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetChapter handles GET /api/chapters/:id.
func (h *ContentHandler) GetChapter(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.contentService.GetChapter(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateChapter handles POST /api/admin/subjects/:id/chapters.
func (h *ContentHandler) CreateChapter(c *fiber.Ctx) error {
	subjectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.CreateChapter(c.Context(), subjectID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateChapter handles PUT /api/admin/chapters/:id.
func (h *ContentHandler) UpdateChapter(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.UpdateChapter(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteChapter handles DELETE /api/admin/chapters/:id.
func (h *ContentHandler) DeleteChapter(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.contentService.DeleteChapter(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Quizzes ---

// ListQuizzes handles GET /api/chapters/:id/quizzes.
func (h *ContentHandler) ListQuizzes(c *fiber.Ctx) error {
	chapterID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.contentService.ListQuizzes(c.Context(), chapterID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuiz handles GET /api/quizzes/:id.
func (h *ContentHandler) GetQuiz(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.contentService.GetQuiz(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateQuiz handles POST /api/admin/chapters/:id/quizzes.
func (h *ContentHandler) CreateQuiz(c *fiber.Ctx) error {
	chapterID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.CreateQuiz(c.Context(), chapterID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateQuiz handles PUT /api/admin/quizzes/:id.
func (h *ContentHandler) UpdateQuiz(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.UpdateQuiz(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuiz handles DELETE /api/admin/quizzes/:id.
func (h *ContentHandler) DeleteQuiz(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.contentService.DeleteQuiz(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Questions ---

// ListQuestions handles GET /api/quizzes/:id/questions. The correct option is
// only included for admins.
func (h *ContentHandler) ListQuestions(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	isAdmin := false
	if claims := middleware.GetClaims(c); claims != nil {
		isAdmin = claims.IsAdmin
	}

	resp, err := h.contentService.ListQuestions(c.Context(), quizID, isAdmin)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateQuestion handles POST /api/admin/quizzes/:id/questions.
func (h *ContentHandler) CreateQuestion(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.CreateQuestion(c.Context(), quizID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateQuestion handles PUT /api/admin/questions/:id.
func (h *ContentHandler) UpdateQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	resp, err := h.contentService.UpdateQuestion(c.Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestion handles DELETE /api/admin/questions/:id.
func (h *ContentHandler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.contentService.DeleteQuestion(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
