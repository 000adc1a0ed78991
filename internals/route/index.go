// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	routeDetails "eduplay_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	log.Println("[INFO] Setting up SubjectRoutes...")
	routeDetails.SubjectRoutes(app, db)

	log.Println("[INFO] Setting up QuizRoutes...")
	routeDetails.QuizRoutes(app, db)

	log.Println("[INFO] Setting up StudentRoutes...")
	routeDetails.StudentRoutes(app, db)

	log.Println("[INFO] Setting up TeacherRoutes...")
	routeDetails.TeacherRoutes(app, db)
}
