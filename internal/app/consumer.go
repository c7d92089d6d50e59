package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go-payrun/internal/config"
	"go-payrun/internal/events"
	"go-payrun/internal/messaging/kafka/consumer"
	"go-payrun/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer applies backend payroll status changes to the Command Center
// cache and the local run ledger until interrupted.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	modules, _, _, err := buildModules(cfg, sqlDB, gormDB, rdb, logger)
	if err != nil {
		return err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.PayrollStatusChangedTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumePayrollStatusChanged(ctx, reader, consumer.StatusChangeHandler{
		Cache:  modules.CommandCenter,
		Drafts: modules.Drafts,
		Runs:   modules.Disbursement,
	}, logger)

	logger.Info("consumer shut down")
	return nil
}
