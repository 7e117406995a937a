package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tesla-crm/internal/auth"
	"tesla-crm/internal/bot"
	"tesla-crm/internal/config"
	"tesla-crm/internal/database"
	"tesla-crm/internal/handlers"
	"tesla-crm/internal/middleware"
	"tesla-crm/internal/notify"
	"tesla-crm/internal/repositories"
	"tesla-crm/internal/services"
	"tesla-crm/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// =========================================================================
	// Load configuration
	// =========================================================================
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Logger
	// =========================================================================
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// =========================================================================
	// Database
	// =========================================================================
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Auto migrate in development mode
	if cfg.App.IsDevelopment() {
		if err := database.AutoMigrate(db); err != nil {
			log.Warn("auto migrate failed", zap.Error(err))
		} else {
			log.Info("database auto migration completed")
		}
	}

	// =========================================================================
	// Repositories
	// =========================================================================
	leadRepo := repositories.NewLeadRepository(db)
	userRepo := repositories.NewUserRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	kbRepo := repositories.NewKBRepository(db)

	log.Info("repositories initialized")

	// =========================================================================
	// Telegram notifier for new leads
	// =========================================================================
	var notifier notify.Notifier
	if cfg.Telegram.Enabled() {
		notifier = notify.NewTelegramNotifier(cfg.Telegram, log)
		log.Info("telegram notifier initialized")
	} else {
		notifier = notify.NewNoopNotifier()
		log.Warn("telegram not configured, using noop notifier")
	}

	// =========================================================================
	// Bot responder (service classification + risk + pricing replies)
	// =========================================================================
	responder := bot.NewResponder(log)

	log.Info("bot responder initialized")

	// =========================================================================
	// Services
	// =========================================================================
	jwtService := auth.NewJWTService(cfg.JWT)

	activityService := services.NewActivityService(activityRepo, log)
	leadService := services.NewLeadService(leadRepo, activityService, notifier, log)
	userService := services.NewUserService(userRepo, activityService, log)
	authService := services.NewAuthService(userRepo, jwtService, activityService, log)
	chatService := services.NewChatService(
		conversationRepo,
		messageRepo,
		kbRepo,
		responder,
		leadService,
		activityService,
		log,
	)
	metricsService := services.NewMetricsService(leadRepo, conversationRepo, messageRepo, userRepo, activityRepo, log)

	log.Info("services initialized")

	// =========================================================================
	// Handlers
	// =========================================================================
	authHandler := handlers.NewAuthHandler(authService, userService, log)
	leadHandler := handlers.NewLeadHandler(leadService, log)
	chatHandler := handlers.NewChatHandler(chatService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	metricsHandler := handlers.NewMetricsHandler(metricsService, activityService, log)
	dashboardHandler := handlers.NewDashboardHandler(metricsService, activityService, log)

	authMiddleware := middleware.Auth(authService)

	log.Info("handlers initialized")

	// =========================================================================
	// Gin router
	// =========================================================================
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Metrics())

	// Health check endpoint
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": cfg.App.Name,
			"version": "1.0.0",
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", middleware.MetricsHandler())

	// =========================================================================
	// API routes
	// =========================================================================
	api := router.Group("/api/v1")
	{
		// Ping endpoint (public)
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		// Auth routes (register, login, refresh: public | me, logout: protected)
		authHandler.RegisterRoutes(api, authMiddleware)

		// Chat widget routes (send-message, suggested-responses: public)
		chatHandler.RegisterRoutes(api, authMiddleware)

		// =====================================================================
		// Protected routes
		// =====================================================================
		protected := api.Group("")
		protected.Use(authMiddleware)
		{
			leadHandler.RegisterRoutes(protected)
			userHandler.RegisterRoutes(protected)
			metricsHandler.RegisterRoutes(protected)
			dashboardHandler.RegisterRoutes(protected)
		}
	}

	log.Info("routes registered",
		zap.Strings("endpoints", []string{
			"/api/v1/chat/send-message",
			"/api/v1/leads",
			"/api/v1/conversations",
			"/api/v1/metrics/overview",
			"/api/v1/dashboard/stats",
		}),
	)

	// =========================================================================
	// HTTP server
	// =========================================================================
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
