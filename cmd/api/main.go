package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/buildsign/buildsign-api/docs" // Swagger docs
	"github.com/buildsign/buildsign-api/internal/config"
	"github.com/buildsign/buildsign-api/internal/database"
	"github.com/buildsign/buildsign-api/internal/handlers"
	"github.com/buildsign/buildsign-api/internal/jobs"
	"github.com/buildsign/buildsign-api/internal/middleware"
	"github.com/buildsign/buildsign-api/internal/realtime"
	"github.com/buildsign/buildsign-api/internal/repository"
	"github.com/buildsign/buildsign-api/internal/services"
	"github.com/buildsign/buildsign-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title BuildSign API
// @version 1.0
// @description REST API for BuildSign contract lifecycle and secure sharing

// @contact.name API Support
// @contact.email support@buildsign.app

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Share links will not reach clients.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize realtime hub for dashboard event streams
	hub := realtime.NewHub()

	// Initialize services
	svcs := services.NewServices(repos, worker, hub, cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, hub, db)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Close realtime subscriptions, then stop the worker
	hub.Shutdown()
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Check)

		// Share-link gateway (public; the token is the credential)
		share := v1.Group("/contract")
		{
			share.GET("/view", h.Share.View)
			share.POST("/view", h.Share.Sign)
			share.GET("/view/download", h.Share.Download)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			contracts := protected.Group("/contracts")
			{
				contracts.GET("", h.Contract.Index)
				contracts.POST("", h.Contract.Create)
				contracts.GET("/export", h.Contract.Export)
				contracts.GET("/:id", h.Contract.Show)
				contracts.PUT("/:id", h.Contract.Update)
				contracts.DELETE("/:id", h.Contract.Archive)
				contracts.POST("/:id/send", h.Contract.Send)
				contracts.POST("/:id/resend", h.Contract.Resend)
				contracts.GET("/:id/share_link", h.Contract.ShareLink)
				contracts.GET("/:id/activity", h.Contract.Activity)
				contracts.POST("/:id/countersign", h.Contract.CounterSign)
				contracts.GET("/:id/download", h.Contract.Download)
			}

			protected.GET("/ws/contracts/:id", h.Events.Stream)

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.GET("/unread_count", h.Notification.UnreadCount)
				notifications.POST("/read_all", h.Notification.MarkAllAsRead)
				notifications.POST("/:id/read", h.Notification.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Tell owners about share links that expired in the last day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sweeping expired share links...")
		return svcs.Contract.NotifyExpiredLinks(ctx, time.Now().Add(-24*time.Hour))
	})

	logger.Info("Scheduled recurring jobs")
}
