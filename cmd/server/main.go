package main

import (
	"log"
	"time"

	"garment_tracker/internal/config"
	"garment_tracker/internal/database"
	"garment_tracker/internal/handlers"
	"garment_tracker/internal/middleware"
	"garment_tracker/internal/migrations"
	"garment_tracker/internal/redis"
	"garment_tracker/internal/repository"
	"garment_tracker/internal/services"
	"garment_tracker/internal/ws"
	"garment_tracker/pkg/push"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Printf("Warning: Redis unavailable, running without cache: %v", err)
		redisClient = nil
	}

	// Initialize websocket hub and push client
	hub := ws.NewHub()
	pushClient := push.NewClient(cfg.PushGatewayURL, cfg.PushGatewayToken)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	repositionRepo := repository.NewRepositionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(notificationRepo, userRepo, redisClient, hub, pushClient)
	userService := services.NewUserService(db, userRepo)
	orderService := services.NewOrderService(db, orderRepo, notificationService)
	transferService := services.NewTransferService(db, transferRepo, notificationService)
	repositionService := services.NewRepositionService(db, repositionRepo, notificationService)
	dashboardService := services.NewDashboardService(db, redisClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	orderHandler := handlers.NewOrderHandler(orderService, userService)
	transferHandler := handlers.NewTransferHandler(transferService)
	repositionHandler := handlers.NewRepositionHandler(repositionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	adminHandler := handlers.NewAdminHandler(userService)
	wsHandler := handlers.NewWSHandler(hub)

	// Setup routes
	router := gin.Default()
	router.Use(middleware.CORS())

	router.POST("/api/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		api.GET("/me", authHandler.Me)
		api.GET("/ws", wsHandler.Serve)

		api.GET("/dashboard/stats", dashboardHandler.Stats)

		api.POST("/orders", orderHandler.Create)
		api.GET("/orders", orderHandler.List)
		api.GET("/orders/:id", orderHandler.Get)
		api.GET("/orders/:id/pieces", orderHandler.Pieces)
		api.GET("/orders/:id/history", orderHandler.History)
		api.POST("/orders/:id/complete", orderHandler.Complete)
		api.DELETE("/orders/:id", orderHandler.Delete)

		api.POST("/transfers", transferHandler.Create)
		api.GET("/transfers", transferHandler.List)
		api.GET("/transfers/pending", transferHandler.Pending)
		api.POST("/transfers/:id/accept", transferHandler.Accept)
		api.POST("/transfers/:id/reject", transferHandler.Reject)

		api.POST("/repositions", repositionHandler.Create)
		api.GET("/repositions", repositionHandler.List)
		api.GET("/repositions/transfers/pending", repositionHandler.PendingTransfers)
		api.GET("/repositions/:id", repositionHandler.Get)
		api.POST("/repositions/:id/approve", repositionHandler.Approve)
		api.POST("/repositions/:id/request-completion", repositionHandler.RequestCompletion)
		api.POST("/repositions/:id/complete", repositionHandler.Complete)
		api.DELETE("/repositions/:id", repositionHandler.Delete)
		api.POST("/repositions/:id/transfers", repositionHandler.RequestTransfer)
		api.POST("/reposition-transfers/:id/process", repositionHandler.ProcessTransfer)
		api.GET("/repositions/:id/history", repositionHandler.History)
		api.GET("/repositions/:id/tracking", repositionHandler.Tracking)

		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications/:id/read", notificationHandler.MarkRead)
		api.GET("/notifications/unread-count", notificationHandler.UnreadCount)

		admin := api.Group("/admin")
		{
			admin.POST("/users", adminHandler.CreateUser)
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/reset-password", adminHandler.ResetPassword)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.POST("/password", adminHandler.SetAdminPassword)
		}
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
