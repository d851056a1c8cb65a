// Command print-worker drains the print queue into the local spool
// directory and print command. Run it on the machine the printer is
// attached to.
package main

import (
	"context"
	"errors"
	"os"

	"temple/internal/amqp"
	"temple/internal/cli"
	applog "temple/internal/log"
	"temple/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentWorker)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the print worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	w := worker.NewPrintWorker(client, cli.NewSpool(logger, cfg), logger)

	ctx, done := cli.GracefulShutdown(logger, cli.ShutdownTimeout, nil)

	logger.Info("Starting print worker", "queue", cfg.AMQPQueue, "spool", cfg.PrintSpoolDir)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Print worker stopped", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Print worker stopped gracefully")
}
