package consumer

import (
	"context"
	"encoding/json"

	"go-payrun/internal/events"
	"go-payrun/internal/metrics"
	"go-payrun/internal/period"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, year, month int)
}

type StatusSyncer interface {
	SyncStatus(ctx context.Context, payrollID int64, status period.Status) error
}

type DraftDropper interface {
	Drop(ctx context.Context, key period.Key) error
}

// StatusChangeHandler applies a backend status change locally: the Command
// Center month is invalidated, a draft for a paid or voided period is dropped
// and the run ledger follows the new status.
type StatusChangeHandler struct {
	Cache  CacheInvalidator
	Drafts DraftDropper
	Runs   StatusSyncer
}

// Handle returns false when the message should be redelivered.
func (h StatusChangeHandler) Handle(ctx context.Context, event events.PayrollStatusChangedEvent, log *zap.Logger) bool {
	status, ok := period.ParseStatus(event.Status)
	if !ok {
		log.Warn("unknown payroll status, skipping",
			zap.Int64("payroll_id", event.PayrollID),
			zap.String("status", event.Status),
		)
		return true
	}

	year, month, err := period.ParsePeriod(event.Period)
	if err != nil {
		log.Warn("status change without a usable period", zap.String("period", event.Period))
	} else {
		h.Cache.Invalidate(ctx, year, month)

		if status.Terminal() && event.EmployeeID > 0 {
			key := period.Key{EmployeeID: event.EmployeeID, Year: year, Month: month}
			if err := h.Drafts.Drop(ctx, key); err != nil {
				log.Error("drop settled draft failed",
					zap.String("key", key.String()),
					zap.Error(err),
				)
				return false
			}
		}
	}

	if err := h.Runs.SyncStatus(ctx, event.PayrollID, status); err != nil {
		log.Error("sync run status failed",
			zap.Int64("payroll_id", event.PayrollID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return false
	}
	return true
}

func ConsumePayrollStatusChanged(
	ctx context.Context,
	reader MessageReader,
	handler StatusChangeHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_status")
	log.Info("payroll status consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll status consumer stopped")
				return
			}
			log.Error("fetch payroll status message failed", zap.Error(err))
			continue
		}

		var event events.PayrollStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			metrics.ConsumedEvents.WithLabelValues(events.PayrollStatusChangedTopic, "malformed").Inc()
			log.Error("decode payroll status event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if !handler.Handle(ctx, event, log) {
			metrics.ConsumedEvents.WithLabelValues(events.PayrollStatusChangedTopic, "retry").Inc()
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll status message failed", zap.Error(err))
			continue
		}

		metrics.ConsumedEvents.WithLabelValues(events.PayrollStatusChangedTopic, "ok").Inc()
		log.Info("payroll status applied",
			zap.Int64("payroll_id", event.PayrollID),
			zap.String("status", event.Status),
			zap.String("period", event.Period),
		)
	}
}
