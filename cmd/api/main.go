package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"synthetic-rights/internal/config"
	"synthetic-rights/internal/handler"
	"synthetic-rights/internal/middleware"
	"synthetic-rights/internal/repository"
	"synthetic-rights/internal/service"
	"synthetic-rights/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (file upload will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services, err := service.NewServices(repos, redisClient, minioClient, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    100 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	// Verification is deliberately public: anyone holding a hash or a
	// certificate ID can check it without an account.
	verify := v1.Group("/verify")
	verify.Get("/:hash", h.Verification.Verify)
	verify.Post("/:hash", h.Verification.VerifyFuzzy)

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))

	works := protected.Group("/works")
	works.Post("/", h.Work.Register)
	works.Get("/", h.Work.List)
	works.Get("/:workId", h.Work.Get)
	works.Patch("/:workId", h.Work.Update)

	certificates := protected.Group("/certificates")
	certificates.Post("/generate", h.Certificate.Generate)
	certificates.Post("/batch", h.Certificate.BatchGenerate)
	certificates.Post("/batch/download", h.Certificate.BatchDownload)
	certificates.Get("/", h.Certificate.List)
	certificates.Get("/:certificateId", h.Certificate.Get)
	certificates.Post("/:certificateId/revoke", h.Certificate.Revoke)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Delete("/:id", h.Notification.Delete)
}
