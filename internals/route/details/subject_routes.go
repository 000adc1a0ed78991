package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subjectController "eduplay_backend/internals/features/school/subjects/controller"
	authMiddleware "eduplay_backend/internals/middlewares/auth"
)

func SubjectRoutes(app *fiber.App, db *gorm.DB) {
	ctl := subjectController.NewSubjectController(db)

	subjects := app.Group("/api/subjects", authMiddleware.AuthMiddleware(db))
	subjects.Get("/", ctl.List)
}
