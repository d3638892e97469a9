package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/konvff/taxi-api/internal/config"
	"github.com/konvff/taxi-api/internal/connect"
	"github.com/konvff/taxi-api/internal/container"
	"github.com/konvff/taxi-api/internal/mailer"
	"github.com/konvff/taxi-api/internal/mq"
	"github.com/konvff/taxi-api/internal/notify"
	"github.com/konvff/taxi-api/internal/routes"
	"github.com/konvff/taxi-api/internal/services"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	cld, err := connect.CloudinaryCredentials()
	if err != nil {
		slog.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("Starting taxi API server", "environment", cfg.Environment)

	// Initialize database connections
	pgPool, err := connect.PostgresConnect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to Postgres", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to Postgres successfully")

	mongoClient, err := connect.MongoDBConnect(cfg.MongoDBURI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully")

	// Optional integrations. Each one stays nil when unconfigured and
	// the app runs without it.
	var events notify.EventPublisher
	if cfg.RabbitMQURL != "" {
		conn, ch, err := connect.RabbitMQConnect(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		publisher, err := mq.NewPublisher(ch)
		if err != nil {
			logger.Error("Failed to declare event exchange", "error", err)
			os.Exit(1)
		}
		events = publisher
		logger.Info("Connected to RabbitMQ successfully")
	}

	var sender notify.Sender
	if cfg.FCMProjectID != "" && cfg.FCMCredentialsFile != "" {
		fcm, err := notify.NewFCMSender(context.Background(), cfg.FCMProjectID, cfg.FCMCredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM sender", "error", err)
			os.Exit(1)
		}
		sender = fcm
		logger.Info("FCM sender initialized", "project_id", cfg.FCMProjectID)
	} else {
		logger.Warn("FCM not configured, push notifications disabled")
	}

	var resetMailer services.ResetMailer
	if cfg.SMTPHost != "" {
		resetMailer = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}

	// Initialize dependency container
	appContainer := container.NewContainer(logger, cld, pgPool, mongoClient, sender, events, resetMailer)
	go appContainer.Hub.Run()

	// Setup routes
	router := routes.SetupRoutes(appContainer)

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
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Close database connections
	connect.PostgresDisconnect()
	if err := connect.MongoDBDisconnect(); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		// JSON logging for production
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		// Human-readable logging for development
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
