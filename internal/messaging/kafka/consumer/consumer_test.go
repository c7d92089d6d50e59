package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"go-payrun/internal/events"
	"go-payrun/internal/messaging/kafka/consumer"
	"go-payrun/internal/period"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) Invalidate(ctx context.Context, year, month int) {
	f.invalidated = append(f.invalidated, period.FormatPeriod(year, month))
}

type fakeDrafts struct {
	dropped []period.Key
	err     error
}

func (f *fakeDrafts) Drop(ctx context.Context, key period.Key) error {
	if f.err != nil {
		return f.err
	}
	f.dropped = append(f.dropped, key)
	return nil
}

type fakeRuns struct {
	synced map[int64]period.Status
	err    error
}

func (f *fakeRuns) SyncStatus(ctx context.Context, payrollID int64, status period.Status) error {
	if f.err != nil {
		return f.err
	}
	f.synced[payrollID] = status
	return nil
}

// fakeReader serves queued messages, then blocks until ctx is cancelled.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []kafkago.Message
	drained   chan struct{}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	select {
	case r.drained <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func message(t *testing.T, e events.PayrollStatusChangedEvent) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(e)
	assert.NoError(t, err)
	return kafkago.Message{Topic: events.PayrollStatusChangedTopic, Value: b}
}

func TestStatusChangeHandler_Handle(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("paid", func(t *testing.T) {
		cache := &fakeCache{}
		runs := &fakeRuns{synced: map[int64]period.Status{}}
		drafts := &fakeDrafts{}
		h := consumer.StatusChangeHandler{Cache: cache, Drafts: drafts, Runs: runs}

		ok := h.Handle(ctx, events.PayrollStatusChangedEvent{PayrollID: 101, EmployeeID: 7, Period: "2025-06", Status: "paid"}, log)

		assert.True(t, ok)
		assert.Equal(t, []string{"2025-06"}, cache.invalidated)
		assert.Equal(t, []period.Key{{EmployeeID: 7, Year: 2025, Month: 6}}, drafts.dropped)
		assert.Equal(t, period.StatusPaid, runs.synced[101])
	})

	t.Run("pending keeps the draft", func(t *testing.T) {
		drafts := &fakeDrafts{}
		h := consumer.StatusChangeHandler{Cache: &fakeCache{}, Drafts: drafts, Runs: &fakeRuns{synced: map[int64]period.Status{}}}

		ok := h.Handle(ctx, events.PayrollStatusChangedEvent{PayrollID: 101, EmployeeID: 7, Period: "2025-06", Status: "PENDING_PAYMENT"}, log)

		assert.True(t, ok)
		assert.Empty(t, drafts.dropped)
	})

	t.Run("draft drop failure asks for redelivery", func(t *testing.T) {
		runs := &fakeRuns{synced: map[int64]period.Status{}}
		h := consumer.StatusChangeHandler{Cache: &fakeCache{}, Drafts: &fakeDrafts{err: errors.New("redis down")}, Runs: runs}

		ok := h.Handle(ctx, events.PayrollStatusChangedEvent{PayrollID: 101, EmployeeID: 7, Period: "2025-06", Status: "VOIDED"}, log)

		assert.False(t, ok)
		assert.Empty(t, runs.synced)
	})

	t.Run("unknown status is skipped", func(t *testing.T) {
		cache := &fakeCache{}
		runs := &fakeRuns{synced: map[int64]period.Status{}}
		h := consumer.StatusChangeHandler{Cache: cache, Drafts: &fakeDrafts{}, Runs: runs}

		ok := h.Handle(ctx, events.PayrollStatusChangedEvent{PayrollID: 101, Period: "2025-06", Status: "SETTLED"}, log)

		assert.True(t, ok)
		assert.Empty(t, cache.invalidated)
		assert.Empty(t, runs.synced)
	})

	t.Run("sync failure asks for redelivery", func(t *testing.T) {
		h := consumer.StatusChangeHandler{Cache: &fakeCache{}, Drafts: &fakeDrafts{}, Runs: &fakeRuns{err: errors.New("db down")}}

		ok := h.Handle(ctx, events.PayrollStatusChangedEvent{PayrollID: 101, Period: "2025-06", Status: "VOIDED"}, log)

		assert.False(t, ok)
	})
}

func TestConsumePayrollStatusChanged(t *testing.T) {
	reader := &fakeReader{
		messages: []kafkago.Message{
			message(t, events.PayrollStatusChangedEvent{PayrollID: 101, Period: "2025-06", Status: "PAID"}),
			{Topic: events.PayrollStatusChangedTopic, Value: []byte("not json")},
			message(t, events.PayrollStatusChangedEvent{PayrollID: 102, Period: "2025-05", Status: "VOIDED"}),
		},
		drained: make(chan struct{}, 1),
	}
	cache := &fakeCache{}
	runs := &fakeRuns{synced: map[int64]period.Status{}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		consumer.ConsumePayrollStatusChanged(ctx, reader, consumer.StatusChangeHandler{Cache: cache, Drafts: &fakeDrafts{}, Runs: runs}, zap.NewNop())
		close(done)
	}()

	<-reader.drained
	cancel()
	<-done

	assert.Len(t, reader.committed, 3)
	assert.Equal(t, []string{"2025-06", "2025-05"}, cache.invalidated)
	assert.Equal(t, period.StatusVoided, runs.synced[102])
}
