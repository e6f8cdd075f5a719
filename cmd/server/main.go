package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/studydeck/internal/api"
	"github.com/vytor/studydeck/internal/cache"
	"github.com/vytor/studydeck/internal/config"
	"github.com/vytor/studydeck/internal/db"
	"github.com/vytor/studydeck/internal/logger"
	"github.com/vytor/studydeck/internal/repository/sqlite"
	"github.com/vytor/studydeck/internal/services"
	"github.com/vytor/studydeck/internal/study"
	"github.com/vytor/studydeck/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyDeck Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("study_rate_timeout=%v", cfg.StudyRateTimeout)
	log.Debug("stats_worker_count=%d", cfg.StatsWorkerCount)
	log.Debug("stats_queue_size=%d", cfg.StatsQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)

	// Background stats refresh
	statsPool := worker.NewPool(cfg.StatsWorkerCount, cfg.StatsQueueSize)
	statsQueue := worker.NewStatsQueue(statsPool, statsRepo)

	// Services
	invalidator := cache.NewMemory()
	deckService := services.NewDeckService(deckRepo, statsRepo, invalidator)
	cardService := services.NewCardService(deckRepo, cardRepo, statsQueue, invalidator)

	srv := &api.Server{
		DeckService: deckService,
		CardService: cardService,
		Sessions:    study.NewManager(cardService, cfg.StudyRateTimeout),
		Versions:    invalidator,
		JWTSecret:   []byte(cfg.JWTSecret),
		CORSOrigins: cfg.CORSOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	statsPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	statsPool.Stop()

	log.Info("===========================================")
	log.Info("StudyDeck Server Stopped")
	log.Info("===========================================")
}
