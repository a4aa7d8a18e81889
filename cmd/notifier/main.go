package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acmeshop/storefront/internal/config"
	"github.com/acmeshop/storefront/internal/notification"
	"github.com/acmeshop/storefront/kafka"
	"github.com/acmeshop/storefront/pkg/logger"
	"github.com/acmeshop/storefront/pkg/tracing"
)

func main() {
	cfg := config.Load()

	serviceName := cfg.ServiceName + "-notifier"
	logger.Init(serviceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", cfg.Environment).
		Msg("Starting notifier worker")

	tp, err := tracing.InitTracer(serviceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "storefront-notifier", []string{kafka.TopicOrderEvents})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	sender := notification.NewEmailSender(getEnv("NOTIFICATION_FROM", "orders@acmeshop.example"))
	consumer.RegisterHandler(kafka.EventTypeOrderCreated, sender.HandleOrderCreated)
	consumer.RegisterHandler(kafka.EventTypePaymentConfirmed, sender.HandlePaymentConfirmed)
	consumer.RegisterHandler(kafka.EventTypeOrderShipped, sender.HandleOrderShipped)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start consumer")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down notifier...")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
