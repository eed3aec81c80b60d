package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jesus-guti/tqr-rpe/internal/api"
	"github.com/jesus-guti/tqr-rpe/internal/auth"
	"github.com/jesus-guti/tqr-rpe/internal/cache"
	"github.com/jesus-guti/tqr-rpe/internal/config"
	"github.com/jesus-guti/tqr-rpe/internal/repository"
	"github.com/jesus-guti/tqr-rpe/internal/scheduler"
	"github.com/jesus-guti/tqr-rpe/internal/sheets"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting TQR-RPE wellness tracking server")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize database connection
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize optional Redis token cache
	var tokenCache *cache.RedisCache
	if cfg.RedisEnabled {
		tokenCache, err = cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
			tokenCache = nil
		} else {
			defer tokenCache.Close()
		}
	}

	// Initialize Google Sheets client when credentials are configured
	var syncService *sheets.SyncService
	var sheetsAdmin sheets.Admin
	if cfg.SheetsConfigured() {
		sheetsClient, err := sheets.NewClient(ctx, sheets.Config{
			ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
			PrivateKeyPEM:       cfg.GooglePrivateKeyPEM(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Google Sheets client")
		}
		syncService = sheets.NewSyncService(sheetsClient, sheetsClient, db.Entries)
		sheetsAdmin = sheetsClient
		log.Info().Msg("Google Sheets client initialized")
	} else {
		log.Warn().Msg("Google Sheets credentials not configured - sync endpoints disabled")
	}

	// Build token resolver; the cache interface stays nil-safe when Redis is off
	var resolverCache auth.TokenCache
	if tokenCache != nil {
		resolverCache = tokenCache
	}
	resolver := auth.NewResolver(db.Players, resolverCache)

	// Build HTTP router
	var invalidator api.TokenInvalidator
	if tokenCache != nil {
		invalidator = tokenCache
	}
	handler := api.NewHandler(cfg, db, resolver, syncService, sheetsAdmin, invalidator)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.SheetsSyncTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start optional nightly sync scheduler
	var sched *scheduler.Scheduler
	if cfg.EnableScheduler && syncService != nil {
		sched = scheduler.NewScheduler(cfg, syncService)
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Start HTTP server
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info().Msg("Received shutdown signal, gracefully shutting down...")
	cancel()

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	log.Info().Msg("Server shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}
