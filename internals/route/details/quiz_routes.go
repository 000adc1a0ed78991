package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	generation "eduplay_backend/internals/features/quizzes/generation/service"
	quizController "eduplay_backend/internals/features/quizzes/quizzes/controller"
	authMiddleware "eduplay_backend/internals/middlewares/auth"

	"eduplay_backend/internals/configs"
)

func QuizRoutes(app *fiber.App, db *gorm.DB) {
	gen := generation.NewGenerator(configs.OpenAIAPIKey)
	ctl := quizController.NewQuizController(db, gen)

	quiz := app.Group("/api/quiz",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.IsTeacher(),
	)
	quiz.Post("/create", ctl.Create)
	quiz.Post("/generate", ctl.Generate)
	quiz.Get("/list", ctl.List)
	quiz.Get("/:quizId", ctl.Detail)
	quiz.Post("/:quizId/assign", ctl.Assign)
	quiz.Delete("/:quizId", ctl.Delete)
}
