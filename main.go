package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"eduplay_backend/internals/configs"
	database "eduplay_backend/internals/databases"
	progressModel "eduplay_backend/internals/features/progress/progress/model"
	assignmentModel "eduplay_backend/internals/features/quizzes/assignments/model"
	attemptModel "eduplay_backend/internals/features/quizzes/attempts/model"
	quizModel "eduplay_backend/internals/features/quizzes/quizzes/model"
	subjectModel "eduplay_backend/internals/features/school/subjects/model"
	blacklistModel "eduplay_backend/internals/features/users/auth/model"
	scheduler "eduplay_backend/internals/features/users/auth/scheduler"
	userModel "eduplay_backend/internals/features/users/user/model"
	helper "eduplay_backend/internals/helpers"
	middlewares "eduplay_backend/internals/middlewares"
	routes "eduplay_backend/internals/route"
	seeds "eduplay_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 fast JSON
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		BodyLimit:             int(configs.MaxUploadSize) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal server error"
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				msg = fe.Message
			}
			return helper.JsonError(c, code, msg)
		},
	})

	// ⚙️ base middlewares + performance
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 request-id + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if err := database.DB.AutoMigrate(
		&userModel.UserModel{},
		&blacklistModel.TokenBlacklist{},
		&subjectModel.SubjectModel{},
		&quizModel.QuizModel{},
		&quizModel.QuestionModel{},
		&quizModel.QuestionOptionModel{},
		&assignmentModel.AssignmentModel{},
		&attemptModel.AttemptModel{},
		&attemptModel.AnswerModel{},
		&progressModel.StudentProgress{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	if err := seeds.SeedSubjects(database.DB); err != nil {
		log.Printf("[ERROR] Subject seeding failed: %v", err)
	}

	// ⏱ scheduler after DB is ready
	scheduler.StartBlacklistCleanupScheduler(database.DB)

	// ✅ routes
	routes.SetupRoutes(app, database.DB)

	// 🔒 server timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + close DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
