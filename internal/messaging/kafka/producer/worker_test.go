package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payrun/internal/messaging/kafka"
	"go-payrun/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutbox struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository               { return f }
func (f *fakeOutbox) Create(ctx context.Context, e kafka.OutboxEvent) error { return nil }
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failOn   string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failOn {
			return errors.New("broker unavailable")
		}
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutbox{
		failed: map[string]string{},
		pending: []kafka.OutboxEvent{
			{ID: "e1", RequestID: "req-1", AggregateType: "payroll_run", AggregateID: "run-1", EventType: "payroll_disbursement_initiated", Topic: "payroll.disbursement.initiated.v1", Payload: []byte(`{}`)},
			{ID: "e2", AggregateType: "payroll", AggregateID: "101", EventType: "payroll_voided", Topic: "payroll.voided.v1", Payload: []byte(`{}`)},
		},
	}
	writer := &fakeWriter{failOn: "101"}

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"e1"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["e2"])

	assert.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "payroll.disbursement.initiated.v1", msg.Topic)
	assert.Equal(t, []byte("run-1"), msg.Key)
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "req-1", headers["request_id"])
	assert.Equal(t, "payroll_disbursement_initiated", headers["event_type"])
}
