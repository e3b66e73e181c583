// main.go
package main

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"teamhq/auth"
	"teamhq/config"
	"teamhq/database"
	"teamhq/handlers"
	"teamhq/handlers/admin"
	"teamhq/middleware"
	"teamhq/models"
	"teamhq/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()
	cfg.Validate()

	// Initialize database
	database.InitDB()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// Counter store: process-local by default, shared via Redis when configured
	var store middleware.CounterStore
	if cfg.RedisAddr != "" {
		redisStore, err := middleware.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect rate limiter to Redis: %v", err)
		}
		store = redisStore
		log.Println("✅ Rate limiter using shared Redis counters")
	} else {
		store = middleware.NewMemoryStore()
	}
	limiter := middleware.NewLimiter(cfg.RateLimit, store)

	transferService := services.NewTransferService(database.GetDB(), services.NewLogNotifier(), cfg.TransferTTL)

	handlers.Init(issuer, limiter, transferService)
	admin.Init()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(cfg),
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Device-Id",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// Public pre-auth resolution
	api.Get("/resolve/:subdomain", handlers.ResolveTeam)

	// Auth routes gated by IP and device fingerprint; registration adds
	// its own per-email gate inside the handler
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(limiter))
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/switch-context", middleware.AuthRequired(issuer), handlers.SwitchContext)

	// Team routes
	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthRequired(issuer))
	teamGroup.Post("/", handlers.CreateTeam)
	teamGroup.Get("/:id", handlers.GetTeam)
	teamGroup.Put("/:id", handlers.UpdateTeam)
	teamGroup.Delete("/:id", handlers.DeleteTeam)
	teamGroup.Post("/:id/transfers", handlers.InitiateTransfer)

	// Ownership transfer completion and cancellation
	transferGroup := api.Group("/transfers")
	transferGroup.Use(middleware.AuthRequired(issuer))
	transferGroup.Post("/complete", handlers.CompleteTransfer)
	transferGroup.Delete("/:id", handlers.CancelTransfer)

	// Tenant-scoped roster data
	athleteGroup := api.Group("/athletes")
	athleteGroup.Use(middleware.AuthRequired(issuer))
	athleteGroup.Get("/", handlers.ListAthletes)
	athleteGroup.Post("/", handlers.CreateAthlete)
	athleteGroup.Get("/:id", handlers.GetAthlete)
	athleteGroup.Put("/:id", handlers.UpdateAthlete)
	athleteGroup.Delete("/:id", handlers.DeleteAthlete)

	registrationGroup := api.Group("/registrations")
	registrationGroup.Use(middleware.AuthRequired(issuer), middleware.RateLimit(limiter))
	registrationGroup.Get("/", handlers.ListRegistrations)
	registrationGroup.Post("/", handlers.CreateRegistration)

	// Global-admin surface: the only path that sees soft-deleted rows or
	// performs physical deletes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(issuer), middleware.GlobalAdminOnly())
	adminGroup.Get("/teams/deleted", admin.ListDeletedTeams)
	adminGroup.Post("/teams/:id/recover", admin.RecoverTeam)
	adminGroup.Delete("/teams/:id/purge", admin.PurgeTeam)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	log.Printf("🚀 HTTP server starting on port %s", cfg.Port)
	log.Printf("📊 Environment: %s", cfg.AppEnv)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// errorHandler maps the error taxonomy onto HTTP responses. Rate-limit errors
// additionally carry the Retry-After header.
func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var appErr *models.AppError
		if errors.As(err, &appErr) {
			code = appErr.Status
			message = appErr.Message
			if appErr.RetryAfter > 0 {
				c.Set("Retry-After", strconv.Itoa(appErr.RetryAfter))
			}
		} else if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		// Don't expose internal errors in production
		if cfg.AppEnv == "production" && code == fiber.StatusInternalServerError {
			message = "An error occurred. Please try again later."
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}
