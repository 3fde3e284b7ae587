// main.go
package main

import (
	"log"
	"os"
	"time"

	"battlepost/database"
	"battlepost/handlers"
	"battlepost/middleware"
	"battlepost/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Realtime notification hub
	hub := handlers.NewHub()

	// AI oracle is optional; without it drawings stay pending and posts
	// get no AI comments.
	var oracle services.Oracle
	if oracleURL := os.Getenv("AI_ORACLE_URL"); oracleURL != "" {
		oracle = services.NewHTTPOracle(oracleURL, os.Getenv("AI_ORACLE_API_KEY"))
		log.Println("🤖 AI oracle configured")
	} else {
		log.Println("Warning: AI_ORACLE_URL not set, AI evaluation disabled")
	}

	handlers.InitServices(hub, oracle)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    8 * 1024 * 1024, // 8MB, drawings arrive as data URLs
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// Post routes
	api.Get("/posts", handlers.GetPosts)
	api.Get("/posts/:id", handlers.GetPost)
	api.Post("/posts", middleware.AuthMiddleware, handlers.CreatePost)
	api.Get("/posts/:id/comments", handlers.GetComments)
	api.Post("/posts/:id/comments", middleware.AuthMiddleware, handlers.CreateComment)

	// Like routes
	api.Post("/likes", middleware.AuthMiddleware, handlers.ToggleLike)

	// Drawing routes
	api.Get("/drawings", handlers.GetDrawings)
	api.Get("/drawings/top", handlers.GetTopDrawings)
	api.Get("/drawings/:id", handlers.GetDrawing)
	api.Post("/drawings", middleware.AuthMiddleware, handlers.CreateDrawing)

	// Daily mission routes
	missionGroup := api.Group("/daily-mission")
	missionGroup.Use(middleware.AuthMiddleware)
	missionGroup.Get("/", handlers.GetDailyMission)
	missionGroup.Post("/complete", handlers.CompleteDailyMission)

	// Achievement routes
	api.Get("/achievements", middleware.AuthMiddleware, handlers.GetAchievements)

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", handlers.GetNotifications)
	notificationGroup.Get("/count", handlers.GetNotificationCount)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetCurrentUser)
	userGroup.Put("/me", handlers.UpdateCurrentUser)
	userGroup.Get("/:id", handlers.GetUserProfile)

	// Ranking
	api.Get("/ranking", handlers.GetRanking)

	// Realtime notification stream
	app.Use("/ws", handlers.UpgradeMiddleware)
	app.Get("/ws", middleware.WebSocketAuthMiddleware, hub.Handler())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🌐 Notifications available at ws://localhost:%s/ws", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
