package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attemptController "eduplay_backend/internals/features/quizzes/attempts/controller"
	authMiddleware "eduplay_backend/internals/middlewares/auth"
)

func StudentRoutes(app *fiber.App, db *gorm.DB) {
	ctl := attemptController.NewStudentController(db)

	student := app.Group("/api/student",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.IsStudent(),
	)
	student.Get("/dashboard", ctl.GetDashboard)
	student.Get("/profile", ctl.GetProfile)
	student.Post("/quiz/:assignmentId/start", ctl.StartQuiz)
	student.Post("/quiz/:attemptId/submit", ctl.SubmitQuiz)
	student.Get("/quiz/:attemptId/results", ctl.GetQuizResults)
}
