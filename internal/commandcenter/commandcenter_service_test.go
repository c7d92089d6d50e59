package commandcenter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	commandcentererrors "go-payrun/internal/commandcenter/errors"
	"go-payrun/internal/engine"
	engineMock "go-payrun/internal/engine/mock"
	"go-payrun/internal/period"
	"go-payrun/internal/workflow"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var (
	hr    = workflow.Context{OperatorID: "op-1", AuthToken: "t", Role: workflow.RoleHR}
	admin = workflow.Context{OperatorID: "op-2", AuthToken: "t", Role: workflow.RoleAdmin}
	june  = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
)

type commandCenterDeps struct {
	service   *service
	engine    *engineMock.MockClient
	redismock redismock.ClientMock
}

func setupCommandCenterTest(t *testing.T, withRedis bool) *commandCenterDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := engineMock.NewMockClient(ctrl)

	deps := &commandCenterDeps{engine: client}
	if withRedis {
		rdb, mock := redismock.NewClientMock()
		deps.redismock = mock
		deps.service = NewService(client, rdb, time.Minute, 10).(*service)
	} else {
		deps.service = NewService(client, nil, time.Minute, 10).(*service)
	}
	deps.service.now = func() time.Time { return june }
	return deps
}

func pfd(y, m int) period.FlexDate {
	return period.NewFlexDate(time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC))
}

func roster(n int) []engine.CommandCenterRow {
	rows := make([]engine.CommandCenterRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, engine.CommandCenterRow{
			EmployeeID:   int64(i),
			FullName:     fmt.Sprintf("Employee %02d", i),
			EarnedSalary: decimal.NewFromInt(30000),
		})
	}
	return rows
}

func TestCommandCenter_ListRuns_ResolvesStatuses(t *testing.T) {
	deps := setupCommandCenterTest(t, false)

	rows := []engine.CommandCenterRow{
		{EmployeeID: 5, FullName: "Ready Person", EarnedSalary: decimal.NewFromInt(50000)},
		{EmployeeID: 6, FullName: "Zero Person"},
		{EmployeeID: 7, FullName: "Paid Person", EarnedSalary: decimal.NewFromInt(40000)},
		{EmployeeID: 8, FullName: "Voided Person", EarnedSalary: decimal.NewFromInt(40000)},
	}
	records := []engine.PayrollRecord{
		{PayrollID: 100, EmployeeID: 7, PayPeriodStart: pfd(2025, 6), Status: "PAID", NetSalary: decimal.NewFromInt(38000)},
		{PayrollID: 101, EmployeeID: 8, PayPeriodStart: pfd(2025, 6), Status: "VOIDED"},
		{PayrollID: 90, EmployeeID: 5, PayPeriodStart: pfd(2025, 5), Status: "PAID"},
	}
	deps.engine.EXPECT().CommandCenter(gomock.Any(), admin, 2025, 6).Return(rows, nil)
	deps.engine.EXPECT().ListPayrolls(gomock.Any(), admin).Return(records, nil)

	page, err := deps.service.ListRuns(context.Background(), admin, ListRunsQuery{Year: 2025, Month: 6})

	assert.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	// descending by employee id
	assert.Equal(t, []int64{8, 7, 6, 5}, []int64{page.Rows[0].EmployeeID, page.Rows[1].EmployeeID, page.Rows[2].EmployeeID, page.Rows[3].EmployeeID})

	voided, paid, zero, ready := page.Rows[0], page.Rows[1], page.Rows[2], page.Rows[3]

	assert.Equal(t, period.StatusVoided, voided.Status)
	assert.False(t, voided.CanRun || voided.CanVoid || voided.CanEmail || voided.Editable)

	assert.Equal(t, period.StatusPaid, paid.Status)
	assert.True(t, paid.CanVoid)
	assert.True(t, paid.CanEmail)
	assert.False(t, paid.CanRun)
	assert.Equal(t, int64(100), *paid.PayrollID)

	assert.Equal(t, period.StatusNoEarnings, zero.Status)
	assert.False(t, zero.CanRun)

	assert.Equal(t, period.StatusReady, ready.Status)
	assert.True(t, ready.CanRun)
	assert.Nil(t, ready.PayrollID)
}

func TestCommandCenter_ListRuns_VoidOnlyForAdmin(t *testing.T) {
	deps := setupCommandCenterTest(t, false)

	deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).Return([]engine.CommandCenterRow{{EmployeeID: 7, FullName: "Paid"}}, nil)
	deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return([]engine.PayrollRecord{
		{PayrollID: 100, EmployeeID: 7, PayPeriodStart: pfd(2025, 6), Status: "PAID"},
	}, nil)

	page, err := deps.service.ListRuns(context.Background(), hr, ListRunsQuery{Year: 2025, Month: 6})

	assert.NoError(t, err)
	assert.False(t, page.Rows[0].CanVoid)
	assert.True(t, page.Rows[0].CanEmail)
}

func TestCommandCenter_ListRuns_PastPeriodWithoutRecord(t *testing.T) {
	deps := setupCommandCenterTest(t, false)

	deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 4).Return(roster(1), nil)
	deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return(nil, nil)

	page, err := deps.service.ListRuns(context.Background(), hr, ListRunsQuery{Year: 2025, Month: 4})

	assert.NoError(t, err)
	assert.Equal(t, period.StatusNoRecord, page.Rows[0].Status)
	assert.False(t, page.Rows[0].CanRun)
}

func TestCommandCenter_ListRuns_PaginationAndFilters(t *testing.T) {
	deps := setupCommandCenterTest(t, false)

	deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).Return(roster(25), nil).AnyTimes()
	deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return(nil, nil).AnyTimes()
	ctx := context.Background()

	first, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6, Page: 1})
	assert.NoError(t, err)
	assert.Len(t, first.Rows, 10)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, int64(25), first.Rows[0].EmployeeID)

	third, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6, Page: 3, FilterKey: first.FilterKey})
	assert.NoError(t, err)
	assert.Len(t, third.Rows, 5)
	assert.Equal(t, 3, third.Page)

	t.Run("changed filter resets to first page", func(t *testing.T) {
		page, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6, Page: 2, Search: "employee 1", FilterKey: first.FilterKey})

		assert.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.NotEqual(t, first.FilterKey, page.FilterKey)
		// Employee 10 to Employee 19
		assert.Equal(t, 10, page.Total)
	})

	t.Run("search by id", func(t *testing.T) {
		page, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6, Search: "23"})

		assert.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, int64(23), page.Rows[0].EmployeeID)
	})

	t.Run("status filter", func(t *testing.T) {
		page, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6, Status: "paid"})

		assert.NoError(t, err)
		assert.Equal(t, 0, page.Total)
		assert.Empty(t, page.Rows)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		_, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6, Status: "pending"})

		assert.ErrorIs(t, err, commandcentererrors.ErrInvalidStatusFilter)
	})
}

func TestCommandCenter_ListRuns_InvalidPeriod(t *testing.T) {
	deps := setupCommandCenterTest(t, false)

	_, err := deps.service.ListRuns(context.Background(), hr, ListRunsQuery{Year: 2025, Month: 13})

	assert.ErrorIs(t, err, commandcentererrors.ErrInvalidPeriod)
}

func TestCommandCenter_Cache(t *testing.T) {
	ctx := context.Background()
	key := SourceKey(2025, 6)

	t.Run("hit skips the engine", func(t *testing.T) {
		deps := setupCommandCenterTest(t, true)

		payload, _ := json.Marshal(sourceData{Rows: roster(2)})
		deps.redismock.ExpectGet(key).SetVal(string(payload))

		page, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6})

		assert.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("refresh bypasses the cache", func(t *testing.T) {
		deps := setupCommandCenterTest(t, true)

		data := sourceData{Rows: roster(1)}
		deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).Return(data.Rows, nil)
		deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return(nil, nil)
		payload, _ := json.Marshal(data)
		deps.redismock.ExpectSet(key, payload, time.Minute).SetVal("OK")

		page, err := deps.service.ListRuns(ctx, hr, ListRunsQuery{Year: 2025, Month: 6, Refresh: true})

		assert.NoError(t, err)
		assert.Equal(t, 1, page.Total)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("invalidate", func(t *testing.T) {
		deps := setupCommandCenterTest(t, true)
		deps.redismock.ExpectDel(key).SetVal(1)

		deps.service.Invalidate(ctx, 2025, 6)

		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})
}

func TestCommandCenter_StatusOf(t *testing.T) {
	ctx := context.Background()
	key := period.Key{EmployeeID: 7, Year: 2025, Month: 6}

	t.Run("pending record is returned for seeding", func(t *testing.T) {
		deps := setupCommandCenterTest(t, false)
		deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).Return([]engine.CommandCenterRow{{EmployeeID: 7, FullName: "E"}}, nil)
		deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return([]engine.PayrollRecord{
			{PayrollID: 55, EmployeeID: 7, PayPeriodStart: pfd(2025, 6), Status: "PENDING_PAYMENT", EarnedSalary: decimal.NewFromInt(41000)},
		}, nil)

		st, err := deps.service.StatusOf(ctx, hr, key, true)

		assert.NoError(t, err)
		assert.Equal(t, period.StatusPendingPayment, st.Status)
		assert.Equal(t, int64(55), st.Record.PayrollID)
	})

	t.Run("not on roster", func(t *testing.T) {
		deps := setupCommandCenterTest(t, false)
		deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).Return(roster(3), nil)
		deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return(nil, nil)

		_, err := deps.service.StatusOf(ctx, hr, key, false)

		assert.ErrorIs(t, err, commandcentererrors.ErrEmployeeNotInRoster)
	})

	t.Run("engine failure", func(t *testing.T) {
		deps := setupCommandCenterTest(t, false)
		deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).Return(nil, errors.New("down"))
		deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return(nil, nil).AnyTimes()

		_, err := deps.service.StatusOf(ctx, hr, key, false)

		assert.Error(t, err)
	})
}

func TestCommandCenter_LoadIsNotSharedAcrossOperators(t *testing.T) {
	deps := setupCommandCenterTest(t, false)
	key := period.Key{EmployeeID: 7, Year: 2025, Month: 6}
	adminStarted := make(chan struct{})

	deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).
		DoAndReturn(func(context.Context, workflow.Context, int, int) ([]engine.CommandCenterRow, error) {
			// hold the first flight open until the second operator reaches the engine
			select {
			case <-adminStarted:
				return roster(8), nil
			case <-time.After(2 * time.Second):
				return nil, errors.New("second operator joined the first operator's load")
			}
		})
	deps.engine.EXPECT().CommandCenter(gomock.Any(), admin, 2025, 6).
		DoAndReturn(func(context.Context, workflow.Context, int, int) ([]engine.CommandCenterRow, error) {
			close(adminStarted)
			return roster(8), nil
		})
	deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).Return(nil, nil)
	deps.engine.EXPECT().ListPayrolls(gomock.Any(), admin).Return(nil, nil)

	errs := make(chan error, 1)
	go func() {
		_, err := deps.service.StatusOf(context.Background(), hr, key, true)
		errs <- err
	}()
	time.Sleep(20 * time.Millisecond)

	_, err := deps.service.StatusOf(context.Background(), admin, key, true)

	assert.NoError(t, err)
	assert.NoError(t, <-errs)
}

func TestCommandCenter_LoadSurvivesCallerCancel(t *testing.T) {
	deps := setupCommandCenterTest(t, false)
	key := period.Key{EmployeeID: 7, Year: 2025, Month: 6}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deps.engine.EXPECT().CommandCenter(gomock.Any(), hr, 2025, 6).
		DoAndReturn(func(ctx context.Context, _ workflow.Context, _, _ int) ([]engine.CommandCenterRow, error) {
			return roster(8), ctx.Err()
		})
	deps.engine.EXPECT().ListPayrolls(gomock.Any(), hr).
		DoAndReturn(func(ctx context.Context, _ workflow.Context) ([]engine.PayrollRecord, error) {
			return nil, ctx.Err()
		})

	st, err := deps.service.StatusOf(ctx, hr, key, true)

	assert.NoError(t, err)
	assert.Equal(t, period.StatusReady, st.Status)
}
