package history_test

import (
	"context"
	"testing"
	"time"

	"go-payrun/internal/engine"
	engineerrors "go-payrun/internal/engine/errors"
	engineMock "go-payrun/internal/engine/mock"
	"go-payrun/internal/history"
	historyerrors "go-payrun/internal/history/errors"
	"go-payrun/internal/period"
	"go-payrun/internal/workflow"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var (
	admin = workflow.Context{OperatorID: "op-9", AuthToken: "t", Role: workflow.RoleAdmin}
	hr    = workflow.Context{OperatorID: "op-1", AuthToken: "t", Role: workflow.RoleHR}
)

func record(id int64, year, month int, status string) engine.PayrollRecord {
	return engine.PayrollRecord{
		PayrollID:      id,
		EmployeeID:     7,
		PayPeriodStart: period.NewFlexDate(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)),
		Status:         status,
		NetSalary:      decimal.NewFromInt(40000),
	}
}

func sampleHistory() []engine.PayrollRecord {
	voided := record(101, 2025, 6, "VOIDED")
	voided.VoidedAt = period.NewFlexDate(time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC))
	return []engine.PayrollRecord{
		record(90, 2025, 4, "PAID"),
		voided,
		record(120, 2025, 6, "PAID"),
		record(95, 2024, 6, "PAID"),
		record(110, 2025, 5, "PENDING_PAYMENT"),
	}
}

func TestHistoryService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("newest period first, voided records kept", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := engineMock.NewMockClient(ctrl)
		svc := history.NewService(client)
		client.EXPECT().EmployeeHistory(gomock.Any(), admin, int64(7)).Return(sampleHistory(), nil)

		entries, err := svc.History(ctx, admin, 7, history.Filter{})

		assert.NoError(t, err)
		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.PayrollID)
		}
		assert.Equal(t, []int64{101, 120, 110, 90, 95}, ids)

		assert.Equal(t, period.StatusVoided, entries[0].Status)
		assert.NotNil(t, entries[0].VoidedAt)
		assert.False(t, entries[0].CanVoid)
		assert.False(t, entries[0].CanEmail)

		assert.True(t, entries[1].CanVoid)
		assert.True(t, entries[1].CanEmail)
		assert.False(t, entries[2].CanEmail)
	})

	t.Run("month and year filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := engineMock.NewMockClient(ctrl)
		svc := history.NewService(client)
		client.EXPECT().EmployeeHistory(gomock.Any(), hr, int64(7)).Return(sampleHistory(), nil).Times(2)

		june, err := svc.History(ctx, hr, 7, history.Filter{Month: 6})
		assert.NoError(t, err)
		assert.Len(t, june, 3)
		for _, e := range june {
			assert.False(t, e.CanVoid)
		}

		june2025, err := svc.History(ctx, hr, 7, history.Filter{Month: 6, Year: 2025})
		assert.NoError(t, err)
		assert.Len(t, june2025, 2)
		assert.Equal(t, "2025-06", june2025[0].Period)
	})

	t.Run("invalid filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := history.NewService(engineMock.NewMockClient(ctrl))

		_, err := svc.History(ctx, hr, 7, history.Filter{Month: 13})
		assert.ErrorIs(t, err, historyerrors.ErrInvalidFilter)

		_, err = svc.History(ctx, hr, 0, history.Filter{})
		assert.ErrorIs(t, err, historyerrors.ErrInvalidEmployee)
	})

	t.Run("engine failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := engineMock.NewMockClient(ctrl)
		svc := history.NewService(client)
		client.EXPECT().EmployeeHistory(gomock.Any(), hr, int64(7)).Return(nil, engineerrors.ErrUpstreamFailure)

		_, err := svc.History(ctx, hr, 7, history.Filter{})

		assert.ErrorIs(t, err, engineerrors.ErrUpstreamFailure)
	})
}
