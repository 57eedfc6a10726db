package main

import (
	"context"
	"errors"
	"os"
	"time"

	"finmate/internal/amqp"
	"finmate/internal/cache"
	"finmate/internal/cli"
	"finmate/internal/log"
	"finmate/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentNotifier)
	logger.Info("Starting finmate-notifier")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alerts := worker.NewAlertWorker(logger, nil)
	caches := cache.NewManager(logger)
	caches.Register(alerts.Seen())
	caches.StartCleanup(time.Hour)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		caches.Stop()
	})

	logger.Info("Consuming budget alerts",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	if err := amqpClient.ConsumeBudgetAlerts(ctx, alerts.HandleBudgetAlert); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Notifier stopped gracefully")
}
