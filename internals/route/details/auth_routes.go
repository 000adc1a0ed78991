package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "eduplay_backend/internals/features/users/auth/controller"
	"eduplay_backend/internals/middlewares"
	authMiddleware "eduplay_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctl := authController.NewAuthController(db)

	auth := app.Group("/api/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
	auth.Get("/google", ctl.GoogleLogin)
	auth.Get("/google/callback", ctl.GoogleCallback)

	protected := auth.Group("/", authMiddleware.AuthMiddleware(db))
	protected.Get("/current", ctl.GetCurrentUser)
	protected.Post("/logout", ctl.Logout)
	protected.Post("/avatar", ctl.UploadAvatar)
}
