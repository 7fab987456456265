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

	_ "github.com/room911/access-api/docs" // Swagger docs
	"github.com/room911/access-api/internal/config"
	"github.com/room911/access-api/internal/database"
	"github.com/room911/access-api/internal/handlers"
	"github.com/room911/access-api/internal/jobs"
	"github.com/room911/access-api/internal/middleware"
	"github.com/room911/access-api/internal/repository"
	"github.com/room911/access-api/internal/services"
	"github.com/room911/access-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @title ROOM_911 Access API
// @version 1.0
// @description REST API for the ROOM_911 employee access control system

// @host localhost:8080
// @BasePath /
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

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run migrations and seed the first administrator
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(cfg)

	// Schedule recurring jobs
	scheduleJobs(worker, db)

	// Initialize handlers
	h := handlers.NewHandlers(db, svcs)

	// Setup router
	router := setupRouter(h, db, cfg)

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

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		// Health check (public)
		api.GET("/health", h.Health.Index)

		// Authentication (public)
		api.POST("/login", h.Auth.Login)

		// Badge terminal (public: the door terminal carries no session)
		api.POST("/entries", h.Entry.Store)

		// Protected routes (requires authentication)
		protected := api.Group("")
		protected.Use(middleware.Auth(db, cfg.JWTSecret))
		{
			protected.POST("/logout", h.Auth.Logout)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// Administrator management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.GET("/users/:id", h.User.Show)
				admin.PUT("/users/:id", h.User.Update)
				admin.PUT("/users/update-status/:id", h.User.UpdateStatus)
				admin.DELETE("/users/:id", h.User.Delete)

				// Employee management
				// Static routes first so "import" is not matched as :id
				admin.GET("/employees", h.Employee.Index)
				admin.POST("/employees", h.Employee.Create)
				admin.POST("/employees/import", h.Employee.Import)
				admin.PUT("/employees/update-access/:id", h.Employee.UpdateAccess)
				admin.GET("/employees/:id", h.Employee.Show)
				admin.PUT("/employees/:id", h.Employee.Update)
				admin.DELETE("/employees/:id", h.Employee.Delete)
				admin.GET("/employees/:id/entries/export", h.Employee.ExportEntries)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, db *gorm.DB) {
	// Prune expired access tokens every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Pruning expired access tokens...")
		pruned, err := repository.NewAccessTokenRepository(db).DeleteExpired(ctx)
		if err != nil {
			return err
		}
		if pruned > 0 {
			logger.Info("[Job] Expired access tokens pruned", "count", pruned)
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
