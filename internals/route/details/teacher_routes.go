package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	teacherController "eduplay_backend/internals/features/reports/teacher/controller"
	authMiddleware "eduplay_backend/internals/middlewares/auth"
)

func TeacherRoutes(app *fiber.App, db *gorm.DB) {
	ctl := teacherController.NewTeacherController(db)

	teacher := app.Group("/api/teacher",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.IsTeacher(),
	)
	teacher.Get("/dashboard", ctl.GetDashboard)
	teacher.Get("/students", ctl.GetStudents)
	teacher.Get("/student/:studentId/progress", ctl.GetStudentProgress)
	teacher.Get("/quiz/:quizId/analytics", ctl.GetQuizAnalytics)
	teacher.Get("/export/students", ctl.ExportStudentData)
}
