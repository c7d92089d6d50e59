package commandcenter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	commandcentererrors "go-payrun/internal/commandcenter/errors"
	"go-payrun/internal/engine"
	"go-payrun/internal/metrics"
	"go-payrun/internal/period"
	"go-payrun/internal/shared/contextutil"
	"go-payrun/internal/workflow"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const SourceKeyPrefix = "payroll-runs:command-center:"

func SourceKey(year, month int) string {
	return SourceKeyPrefix + period.FormatPeriod(year, month)
}

//go:generate mockgen -source=commandcenter_service.go -destination=mock/commandcenter_service_mock.go -package=mock
type Service interface {
	ListRuns(ctx context.Context, wc workflow.Context, q ListRunsQuery) (RunPage, error)
	StatusOf(ctx context.Context, wc workflow.Context, key period.Key, refresh bool) (RunStatus, error)
	Invalidate(ctx context.Context, year, month int)
}

type service struct {
	engine   engine.Client
	rdb      *redis.Client
	ttl      time.Duration
	pageSize int
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(client engine.Client, rdb *redis.Client, ttl time.Duration, pageSize int, logger ...*zap.Logger) Service {
	l := zap.L().Named("commandcenter.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("commandcenter.service")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &service{
		engine:   client,
		rdb:      rdb,
		ttl:      ttl,
		pageSize: pageSize,
		sf:       &singleflight.Group{},
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) ListRuns(ctx context.Context, wc workflow.Context, q ListRunsQuery) (RunPage, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	now := s.now()
	if q.Year == 0 && q.Month == 0 {
		q.Year, q.Month = now.Year(), int(now.Month())
	}
	if q.Month < 1 || q.Month > 12 || q.Year < 1900 || q.Year > 9999 {
		return RunPage{}, commandcentererrors.ErrInvalidPeriod
	}

	var status period.Status
	if f := strings.TrimSpace(q.Status); f != "" && !strings.EqualFold(f, "ALL") {
		parsed, ok := period.ParseStatus(f)
		if !ok {
			return RunPage{}, commandcentererrors.ErrInvalidStatusFilter
		}
		status = parsed
	}

	data, err := s.load(ctx, wc, q.Year, q.Month, q.Refresh)
	if err != nil {
		log.Error("load command center failed",
			zap.Int("year", q.Year),
			zap.Int("month", q.Month),
			zap.Error(err),
		)
		return RunPage{}, err
	}

	resolved := resolveAll(data, q.Year, q.Month, now)
	rows := make([]RunRow, len(resolved))
	for i, st := range resolved {
		rows[i] = toRow(st, wc.IsAdmin())
	}

	key := FilterKey(q.Year, q.Month, status, q.Search)
	page := paginate(rows, status, q.Search, q.Page, s.pageSize, key, q.FilterKey)

	log.Debug("command center listed",
		zap.String("period", period.FormatPeriod(q.Year, q.Month)),
		zap.Int("total", page.Total),
		zap.Int("page", page.Page),
	)
	return page, nil
}

func (s *service) StatusOf(ctx context.Context, wc workflow.Context, key period.Key, refresh bool) (RunStatus, error) {
	if err := key.Validate(); err != nil {
		return RunStatus{}, err
	}

	data, err := s.load(ctx, wc, key.Year, key.Month, refresh)
	if err != nil {
		return RunStatus{}, err
	}

	for _, st := range resolveAll(data, key.Year, key.Month, s.now()) {
		if st.Key.EmployeeID == key.EmployeeID {
			return st, nil
		}
	}
	return RunStatus{}, commandcentererrors.ErrEmployeeNotInRoster
}

func (s *service) Invalidate(ctx context.Context, year, month int) {
	if s.rdb == nil {
		return
	}
	key := SourceKey(year, month)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Error("failed to invalidate command center cache",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// load returns roster and records for one period, from Redis unless refresh
// is set. Concurrent misses for the same period and operator share one engine
// round trip; the shared fill outlives a caller that goes away.
func (s *service) load(ctx context.Context, wc workflow.Context, year, month int, refresh bool) (sourceData, error) {
	key := SourceKey(year, month)

	if s.rdb != nil && !refresh {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var data sourceData
			if json.Unmarshal([]byte(cached), &data) == nil {
				metrics.CommandCenterCache.WithLabelValues("hit").Inc()
				return data, nil
			}
		}
		metrics.CommandCenterCache.WithLabelValues("miss").Inc()
	} else {
		metrics.CommandCenterCache.WithLabelValues("bypass").Inc()
	}

	v, err, _ := s.sf.Do(key+":"+wc.OperatorID, func() (interface{}, error) {
		var data sourceData
		fillCtx := context.WithoutCancel(ctx)

		g, gctx := errgroup.WithContext(fillCtx)
		g.Go(func() error {
			rows, err := s.engine.CommandCenter(gctx, wc, year, month)
			data.Rows = rows
			return err
		})
		g.Go(func() error {
			records, err := s.engine.ListPayrolls(gctx, wc)
			data.Records = records
			return err
		})
		if err := g.Wait(); err != nil {
			return sourceData{}, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(data); err == nil {
				if err := s.rdb.Set(fillCtx, key, payload, s.ttl).Err(); err != nil {
					s.logger.Warn("command center cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return data, nil
	})
	if err != nil {
		return sourceData{}, err
	}
	return v.(sourceData), nil
}
