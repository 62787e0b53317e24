package handler

import (
	"quiz-master/internal/middleware"
	"quiz-master/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires all API endpoints under /api. Public routes are login
// and registration; everything else requires a token, and /api/admin
// additionally requires the admin role.
func RegisterRoutes(
	app *fiber.App,
	authService service.AuthService,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	contentHandler *ContentHandler,
	attemptHandler *AttemptHandler,
	adminHandler *AdminHandler,
) {
	api := app.Group("/api")

	api.Post("/login", authHandler.Login)
	api.Post("/register", userHandler.Register)

	// The content catalog is browsable without a token; questions are not,
	// since learners must be identified before seeing quiz content.
	api.Get("/subjects", contentHandler.ListSubjects)
	api.Get("/subjects/:id", contentHandler.GetSubject)
	api.Get("/subjects/:id/chapters", contentHandler.ListChapters)
	api.Get("/chapters/:id", contentHandler.GetChapter)
	api.Get("/chapters/:id/quizzes", contentHandler.ListQuizzes)
	api.Get("/quizzes/:id", contentHandler.GetQuiz)

	protected := api.Group("", middleware.Protected(authService))
	protected.Get("/me", authHandler.Me)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Put("/profile", userHandler.UpdateProfile)
	protected.Get("/dashboard", attemptHandler.GetDashboard)

	protected.Get("/quizzes/:id/questions", contentHandler.ListQuestions)
	protected.Post("/quizzes/:id/attempts", attemptHandler.SubmitAttempt)

	admin := protected.Group("/admin", middleware.AdminOnly())
	admin.Get("/statistics", adminHandler.GetStatistics)
	admin.Get("/users", userHandler.ListUsers)
	admin.Get("/users/:id/scores", attemptHandler.ListUserScores)
	admin.Delete("/users/:id", userHandler.DeleteUser)

	admin.Post("/subjects", contentHandler.CreateSubject)
	admin.Put("/subjects/:id", contentHandler.UpdateSubject)
	admin.Delete("/subjects/:id", contentHandler.DeleteSubject)
	admin.Post("/subjects/:id/chapters", contentHandler.CreateChapter)
	admin.Put("/chapters/:id", contentHandler.UpdateChapter)
	admin.Delete("/chapters/:id", contentHandler.DeleteChapter)
	admin.Post("/chapters/:id/quizzes", contentHandler.CreateQuiz)
	admin.Put("/quizzes/:id", contentHandler.UpdateQuiz)
	admin.Delete("/quizzes/:id", contentHandler.DeleteQuiz)
	admin.Post("/quizzes/:id/questions", contentHandler.CreateQuestion)
	admin.Put("/questions/:id", contentHandler.UpdateQuestion)
	admin.Delete("/questions/:id", contentHandler.DeleteQuestion)
}
