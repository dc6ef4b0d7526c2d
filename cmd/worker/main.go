package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"LetterForge/internal/ai"
	"LetterForge/internal/config"
	"LetterForge/internal/db"
	"LetterForge/internal/metrics"
	"LetterForge/internal/processor"
	"LetterForge/internal/worker"
)

func main() {

	// ------------------------------------------------
	// Logger
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ------------------------------------------------
	// Config
	// ------------------------------------------------
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ------------------------------------------------
	// Root Context + Shutdown
	// ------------------------------------------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	// ------------------------------------------------
	// Database
	// ------------------------------------------------
	store, err := db.New(cfg.DatabaseURL, cfg.MaxAttempts)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer store.Close()

	// ------------------------------------------------
	// Metrics
	// ------------------------------------------------
	metrics.Init()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Content Provider
	// ------------------------------------------------
	provider := ai.New(
		cfg.OpenAIKey,
		cfg.OpenAIModel,
		cfg.ProviderRetries,
		cfg.ProviderRetryBase,
		cfg.ImageRateLimit,
		cfg.ImageRateWindow,
		logger,
	)

	// ------------------------------------------------
	// Job Processor + Worker Loop
	// ------------------------------------------------
	proc := processor.New(store, provider, cfg.ImagesEnabled, logger)

	loop := worker.New(store, proc, worker.Config{
		PollInterval:         cfg.PollInterval,
		RetryDelay:           cfg.WorkerRetryDelay,
		MaxRetryDelay:        cfg.WorkerMaxRetryDelay,
		MaxConsecutiveErrors: cfg.MaxConsecutiveErrors,
		ErrorCooldown:        cfg.ErrorCooldown,
	}, logger)

	logger.Info("generation worker started",
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Int("max_attempts", cfg.MaxAttempts),
	)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker loop stopped", zap.Error(err))
	}

	// ------------------------------------------------
	// Shutdown
	// ------------------------------------------------
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}

	logger.Info("worker shutdown complete")
}
