package history

import (
	"context"
	"sort"

	"go-payrun/internal/engine"
	historyerrors "go-payrun/internal/history/errors"
	"go-payrun/internal/shared/contextutil"
	"go-payrun/internal/workflow"

	"go.uber.org/zap"
)

//go:generate mockgen -source=history_service.go -destination=mock/history_service_mock.go -package=mock
type Service interface {
	History(ctx context.Context, wc workflow.Context, employeeID int64, f Filter) ([]Entry, error)
}

type service struct {
	engine engine.Client
	logger *zap.Logger
}

func NewService(client engine.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("history.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("history.service")
	}
	return &service{engine: client, logger: l}
}

func (f Filter) validate() error {
	if f.Month < 0 || f.Month > 12 || f.Year < 0 {
		return historyerrors.ErrInvalidFilter
	}
	return nil
}

func (f Filter) matches(r engine.PayrollRecord) bool {
	if f.Year == 0 && f.Month == 0 {
		return true
	}
	if r.PayPeriodStart.IsZero() {
		return false
	}
	if f.Year != 0 && r.PayPeriodStart.Year() != f.Year {
		return false
	}
	if f.Month != 0 && int(r.PayPeriodStart.Month()) != f.Month {
		return false
	}
	return true
}

// History lists every record of an employee, voided ones included, newest
// period first. Filtering happens after the fetch.
func (s *service) History(ctx context.Context, wc workflow.Context, employeeID int64, f Filter) ([]Entry, error) {
	if employeeID <= 0 {
		return nil, historyerrors.ErrInvalidEmployee
	}
	if err := f.validate(); err != nil {
		return nil, err
	}

	records, err := s.engine.EmployeeHistory(ctx, wc, employeeID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("history fetch failed",
			zap.Int64("employee_id", employeeID),
			zap.Error(err),
		)
		return nil, err
	}

	kept := make([]engine.PayrollRecord, 0, len(records))
	for _, r := range records {
		if f.matches(r) {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].PayPeriodStart, kept[j].PayPeriodStart
		if !a.Equal(b.Time) {
			return a.After(b.Time)
		}
		return kept[i].PayrollID < kept[j].PayrollID
	})

	out := make([]Entry, 0, len(kept))
	for _, r := range kept {
		out = append(out, toEntry(r, wc))
	}
	return out, nil
}
