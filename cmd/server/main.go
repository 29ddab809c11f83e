package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/chatterboxhq/chatterbox-backend/internal/cache"
	"github.com/chatterboxhq/chatterbox-backend/internal/handlers"
	"github.com/chatterboxhq/chatterbox-backend/internal/middleware"
	"github.com/chatterboxhq/chatterbox-backend/internal/repository"
	"github.com/chatterboxhq/chatterbox-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	app := fiber.New(fiber.Config{
		AppName: "Chatterbox Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache (best-effort; the service runs without it)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	presenceCache := cache.NewPresenceCache(redisCache)
	historyCache := cache.NewHistoryCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	unreadRepo := repository.NewUnreadCountRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	messageService := service.NewMessageService(messageRepo)
	unreadService := service.NewUnreadService(unreadRepo)

	// The websocket hub owns presence; the user service reads it for the
	// online flags in user listings.
	wsHandler := handlers.NewWebSocketHandler(messageService, unreadService, presenceCache, historyCache)
	userService := service.NewUserService(userRepo, wsHandler.GetHub())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	chatHandler := handlers.NewChatHandler(messageService, unreadService, historyCache)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired())
	protected.Get("/me", authHandler.GetMe)
	protected.Get("/users", userHandler.ListUsers)
	protected.Get("/chat/conversations", chatHandler.GetConversations)
	protected.Get("/chat/unread-counts", chatHandler.GetUnreadCounts)
	protected.Get("/chat/unread-counts/total", chatHandler.GetTotalUnreadCount)
	protected.Get("/chat/:userId/messages", chatHandler.GetMessages)
	protected.Put("/chat/:userId/mark-as-read", chatHandler.MarkConversationRead)

	// WebSocket route (websocket upgrade needs special handling). A missing
	// or invalid token is rejected here, before the upgrade completes.
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
