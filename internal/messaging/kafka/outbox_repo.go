package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
	// OutboxStatusDead rows exhausted their attempts and wait for an operator.
	OutboxStatusDead = "dead"
)

const (
	MaxOutboxAttempts = 10
	OutboxRetryStep   = 15 * time.Second
)

// OutboxSchema creates the table the outbox repository reads and writes.
const OutboxSchema = `
CREATE TABLE IF NOT EXISTS payroll_outbox (
	id UUID PRIMARY KEY,
	request_id TEXT,
	aggregate_type VARCHAR(32) NOT NULL,
	aggregate_id TEXT NOT NULL,
	event_type VARCHAR(64) NOT NULL,
	topic VARCHAR(128) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(16) NOT NULL,
	attempts INT NOT NULL DEFAULT 0,
	last_error TEXT,
	available_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	published_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_payroll_outbox_due ON payroll_outbox (status, available_at);
CREATE INDEX IF NOT EXISTS idx_payroll_outbox_aggregate ON payroll_outbox (aggregate_type, aggregate_id);
`

func EnsureOutboxSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, OutboxSchema)
	return err
}

// OutboxEvent is a run ledger or void announcement waiting for Kafka. It is
// written in the transaction that changes the ledger.
type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	Attempts      int
	AvailableAt   time.Time
}

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	query := `
INSERT INTO payroll_outbox (id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
`
	_, err := r.execer().ExecContext(
		ctx, query,
		event.ID, event.RequestID, event.AggregateType,
		event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
	)
	return err
}

// ListPending returns due rows oldest first. Dead rows are never returned.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	query := `
SELECT id::text, COALESCE(request_id, ''), aggregate_type, aggregate_id,
	event_type, topic, payload, status, attempts, available_at
FROM payroll_outbox
WHERE status IN ($1, $2) AND available_at <= NOW()
ORDER BY created_at ASC
LIMIT $3
`
	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]OutboxEvent, 0, limit)
	for rows.Next() {
		var e OutboxEvent
		if err := rows.Scan(
			&e.ID, &e.RequestID, &e.AggregateType, &e.AggregateID,
			&e.EventType, &e.Topic, &e.Payload, &e.Status, &e.Attempts, &e.AvailableAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payroll_outbox SET status = $2, published_at = NOW(), last_error = NULL WHERE id = $1`,
		id, OutboxStatusSent)
	return err
}

// MarkFailed backs the row off linearly and dead-letters it after
// MaxOutboxAttempts.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `
UPDATE payroll_outbox
SET attempts = attempts + 1,
	status = CASE WHEN attempts + 1 >= $3 THEN $4 ELSE $5 END,
	last_error = LEFT($2, 500),
	available_at = NOW() + ((attempts + 1) * $6 * INTERVAL '1 second')
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query,
		id, reason, MaxOutboxAttempts, OutboxStatusDead, OutboxStatusFailed, int(OutboxRetryStep/time.Second))
	return err
}

func (r *outboxRepository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if event.AggregateID == "" {
		return errors.New("outbox aggregate id is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	if event.Status != OutboxStatusPending {
		return fmt.Errorf("new outbox events must be %s, got %q", OutboxStatusPending, event.Status)
	}
	return nil
}
