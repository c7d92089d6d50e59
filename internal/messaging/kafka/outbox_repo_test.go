package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-payrun/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	event := kafka.OutboxEvent{
		ID:            "5f0c2a1e-0000-4000-8000-000000000001",
		RequestID:     "req-1",
		AggregateType: "payroll",
		AggregateID:   "101",
		EventType:     "payroll_voided",
		Topic:         "payroll.voided.v1",
		Payload:       []byte(`{"payroll_id":101}`),
		Status:        kafka.OutboxStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payroll_outbox`).
		WithArgs(event.ID, event.RequestID, event.AggregateType, event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)
	assert.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateRejectsInvalid(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	err = kafka.NewOutboxRepository(db).Create(context.Background(), kafka.OutboxEvent{ID: "x", Topic: "t", AggregateID: "1", Status: "bogus", Payload: []byte("{}")})
	assert.Error(t, err)

	err = kafka.NewOutboxRepository(db).Create(context.Background(), kafka.OutboxEvent{ID: "x", Topic: "t", AggregateID: "1", Status: kafka.OutboxStatusSent, Payload: []byte("{}")})
	assert.Error(t, err)
}

func TestOutboxRepository_MarkFailedDeadLetters(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE payroll_outbox`).
		WithArgs("e1", "broker down", kafka.MaxOutboxAttempts, kafka.OutboxStatusDead, kafka.OutboxStatusFailed, 15).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(context.Background(), "e1", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM payroll_outbox`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "attempts", "available_at"}).
			AddRow("e1", "req-1", "payroll", "101", "payroll_voided", "payroll.voided.v1", []byte(`{}`), "failed", 2, now))

	events, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 50)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.Equal(t, 2, events[0].Attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
