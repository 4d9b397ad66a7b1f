package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"university_line_bot/internal/app"
	"university_line_bot/internal/infra/config"
	idb "university_line_bot/internal/infra/database"
	"university_line_bot/internal/infra/httpserver"
	"university_line_bot/internal/infra/line"
	"university_line_bot/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

const migrationsSourceURL = "file://migrations"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)
	mainLogger := logger.Log.WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Port: %d", cfg.LogLevel, cfg.Environment, cfg.Port)

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established")

	if err := idb.RunMigrations(migrationsSourceURL, cfg.DatabaseURL); err != nil {
		mainLogger.WithError(err).Fatal("Could not apply database migrations")
	}
	mainLogger.Info("Database migrations applied")

	// Repositories and clients
	studentRepo := idb.NewPostgresStudentRepository(db)
	lineClient := line.NewClient(cfg.LineChannelAccessToken)
	tagDirectory := line.NewCachedTagDirectory(lineClient)

	// Application services
	registrationService := app.NewRegistrationService(
		studentRepo,
		lineClient,
		tagDirectory,
		logger.Log.WithField("component", "registration"),
	)
	broadcastService := app.NewBroadcastService(
		tagDirectory,
		lineClient,
		logger.Log.WithField("component", "broadcast"),
	)

	// HTTP server
	srv := httpserver.New(
		httpserver.Config{
			Port:          cfg.Port,
			ChannelSecret: cfg.LineChannelSecret,
			AdminAPIToken: cfg.AdminAPIToken,
		},
		registrationService,
		broadcastService,
		db,
		logger.Log.WithField("component", "http"),
	)

	go func() {
		if err := srv.Start(); err != nil {
			mainLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	mainLogger.Info("Application shut down gracefully")
}
