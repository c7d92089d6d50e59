package producer

import (
	"context"
	"time"

	"go-payrun/internal/messaging/kafka"
	"go-payrun/internal/metrics"

	"go.uber.org/zap"
)

const batchSize = 50

// ProcessOutboxEvents polls the outbox until ctx is cancelled. Events that fail
// to publish are marked failed and retried with backoff by ListPending.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := ProcessPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// ProcessPendingEvents publishes one batch and returns how many were sent.
func ProcessPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (int, error) {
	events, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	logger.Debug("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		fields := []zap.Field{
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
			zap.String("request_id", event.RequestID),
		}

		if err := publishEvent(ctx, writer, event); err != nil {
			metrics.OutboxPublished.WithLabelValues("failed").Inc()
			logger.Error("publish outbox event failed", append(fields, zap.Error(err))...)
			if merr := repo.MarkFailed(ctx, event.ID, err.Error()); merr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(merr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// published but not marked; it will be sent again
			metrics.OutboxPublished.WithLabelValues("unmarked").Inc()
			logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}

		sent++
		metrics.OutboxPublished.WithLabelValues("sent").Inc()
		logger.Info("outbox event sent", fields...)
	}

	return sent, nil
}
