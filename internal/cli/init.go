// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/temple, cmd/print-worker, cmd/backup-report and cmd/import-legacy.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"temple/internal/amqp"
	"temple/internal/backend"
	"temple/internal/config"
	applog "temple/internal/log"
	"temple/internal/printing"
)

// ShutdownTimeout is how long a process waits for in-flight work on
// SIGINT/SIGTERM.
const ShutdownTimeout = 30 * time.Second

// SetupLogger builds the process logger from the configured level and
// format and makes it the slog default.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads .env and the environment, sets up logging and
// validates the result. It exits the process on validation failure.
func LoadAndValidateConfig(component string) (*config.Config, *applog.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenBackend creates the configured store. It exits the process on failure.
func OpenBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	be, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to open store", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return be
}

// OpenPrinter picks where reprinted receipts go: the RabbitMQ print queue
// when PRINT_QUEUE is set, the spool directory otherwise. The returned
// func releases the queue connection.
func OpenPrinter(logger *applog.Logger, cfg *config.Config) (printing.Consumer, func(), error) {
	if cfg.PrintQueue {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect print queue: %w", err)
		}
		logger.Info("Printing through queue", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		return printing.NewQueueConsumer(client), func() { _ = client.Close() }, nil
	}
	logger.Info("Printing to spool directory", "dir", cfg.PrintSpoolDir, "command", cfg.PrintCommand)
	return NewSpool(logger, cfg), func() {}, nil
}

// NewSpool is the spool consumer for cfg. The print command shares the
// render timeout.
func NewSpool(logger *applog.Logger, cfg *config.Config) *printing.SpoolConsumer {
	return printing.NewSpoolConsumer(cfg.PrintSpoolDir, cfg.PrintCommand, cfg.RenderTimeout, logger)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that is closed once cleanup finished or timed out.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
