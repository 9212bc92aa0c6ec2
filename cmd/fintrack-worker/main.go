package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/identity"
	applog "fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	// Load .env for local development (missing file is fine).
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	result, err := backend.Create(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer result.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := identity.NewStaticProviderFromEnv()
	user, err := provider.CurrentUser(ctx)
	if err != nil || user == nil {
		logger.Error("No signed-in user")
		os.Exit(1)
	}

	alertWorker := worker.NewAlertWorker(result.App, result.Relay, user.ID, cfg.SweepInterval, logger)

	done := make(chan error, 1)
	go func() {
		done <- alertWorker.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		<-done
	case err := <-done:
		if err != nil && err != context.Canceled {
			logger.Error("Worker stopped", applog.FieldError, err.Error())
			os.Exit(1)
		}
	}

	logger.Info("Worker shutdown complete")
}
