// Package main provides the entry point for the raceday API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/raceday/internal/auth"
	"github.com/yourusername/raceday/internal/config"
	"github.com/yourusername/raceday/internal/database"
	"github.com/yourusername/raceday/internal/logger"
	"github.com/yourusername/raceday/internal/metrics"
	"github.com/yourusername/raceday/internal/repository"
	"github.com/yourusername/raceday/internal/scheduler"
	"github.com/yourusername/raceday/internal/scorer"
	"github.com/yourusername/raceday/internal/server"
	"github.com/yourusername/raceday/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Raceday API server starting")

	// Initialize database connection
	ctx := context.Background()
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.CreateSchema(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to create schema")
	}
	appLog.Info("Database connection established")

	// Initialize repositories
	meetingRepo := repository.NewPostgresMeetingRepository(db)
	raceRepo := repository.NewPostgresRaceRepository(db)
	horseRepo := repository.NewPostgresHorseRepository(db)
	predRepo := repository.NewPostgresPredictionRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	// Initialize services
	processScorer := scorer.NewProcessScorer(cfg.Scorer.Command, cfg.Scorer.Args, cfg.GetScorerTimeout(), appLog)
	normalizer := service.NewNormalizer(appLog)
	audit := logger.NewAuditLogger(appLog)
	analysis := service.NewAnalysisService(
		db, processScorer, normalizer,
		meetingRepo, raceRepo, horseRepo, predRepo,
		audit, appLog,
	)
	authSvc := auth.NewService(userRepo, []byte(cfg.Auth.JWTSecret), cfg.GetTokenTTL(), cfg.GetAuthCacheTTL(), appLog)

	// Start retention scheduler if enabled
	if cfg.Retention.Enabled {
		retention := scheduler.NewScheduler(meetingRepo, cfg.GetRetentionMaxAge(), cfg.Retention.Schedule, appLog)
		if err := retention.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start retention scheduler")
		}
		defer retention.Stop()
	}

	// Start metrics endpoint if enabled
	if cfg.Metrics.Enabled {
		metricsSrv := metrics.Serve(cfg.GetMetricsAddr(), cfg.Metrics.Path, appLog)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				appLog.WithError(err).Error("Failed to stop metrics server")
			}
		}()
	}

	// Start HTTP server
	srv := server.New(analysis, authSvc, db, &cfg.Server, appLog)
	go func() {
		if err := srv.Start(cfg.GetListenAddr()); err != nil {
			appLog.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Server shutdown failed")
	}

	appLog.Info("Shutdown complete")
}
