package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go-payrun/internal/config"
	"go-payrun/internal/messaging/kafka"
	"go-payrun/internal/messaging/kafka/producer"
	"go-payrun/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes outbox events to Kafka until interrupted.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kafka.EnsureOutboxSchema(ctx, sqlDB); err != nil {
		return err
	}

	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(sqlDB), kafkaWriter, logger, cfg.Kafka.PollInterval)

	logger.Info("worker shut down")
	return nil
}
