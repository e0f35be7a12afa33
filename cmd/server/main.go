package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/swapcircle/swapcircle-api/internal/config"
	"github.com/swapcircle/swapcircle-api/internal/database"
	"github.com/swapcircle/swapcircle-api/internal/geo"
	"github.com/swapcircle/swapcircle-api/internal/handlers"
	"github.com/swapcircle/swapcircle-api/internal/identity"
	"github.com/swapcircle/swapcircle-api/internal/logging"
	"github.com/swapcircle/swapcircle-api/internal/middleware"
	"github.com/swapcircle/swapcircle-api/internal/routes"
	"github.com/swapcircle/swapcircle-api/internal/services"
	"github.com/swapcircle/swapcircle-api/internal/storage"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.IdentityIssuer == "" {
		slog.Error("IDENTITY_ISSUER environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewTee(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.LevelFromEnv()}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Identity provider key set
	verifier, err := identity.NewVerifier(cfg.JWKSURL(), cfg.IdentityIssuer, cfg.IdentityAudience, cfg.JWKSRefresh)
	if err != nil {
		slog.Error("identity verifier init failed", "error", err)
		os.Exit(1)
	}

	// Object storage
	imageStorage, err := storage.NewCloudinary(cfg)
	if err != nil {
		slog.Error("object storage init failed", "error", err)
		os.Exit(1)
	}

	// Geocoding
	geocoder := geo.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout)

	// Stores and services
	records := store.NewGorm(db)
	moderationService := services.NewModerationService(records)
	userService := services.NewUserService(records)
	listingService := services.NewListingService(records, records, geocoder, imageStorage, cfg.DefaultSearchRadiusMiles)
	messageService := services.NewMessageService(records)
	swapService := services.NewSwapService(records, records, records, messageService)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	userHandler := handlers.NewUserHandler(userService, listingService)
	listingHandler := handlers.NewListingHandler(listingService, moderationService)
	swapHandler := handlers.NewSwapHandler(swapService)
	messageHandler := handlers.NewMessageHandler(messageService, swapService, moderationService)
	uploadHandler := handlers.NewUploadHandler(imageStorage)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	geoHandler := handlers.NewGeoHandler(geocoder)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxImageSizeBytes()) * 12,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, verifier, healthHandler, userHandler, listingHandler, swapHandler, messageHandler, uploadHandler, moderationHandler, geoHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
