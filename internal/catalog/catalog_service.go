package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go-payrun/internal/engine"
	"go-payrun/internal/shared/contextutil"
	"go-payrun/internal/workflow"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const CatalogKeyPrefix = "payroll-runs:catalog:"

func PaymentMethodsKey(operatorID string) string {
	return CatalogKeyPrefix + operatorID + ":payment-methods"
}

func ComponentsKey(operatorID string) string {
	return CatalogKeyPrefix + operatorID + ":components"
}

// coreComponents are edited through dedicated draft fields, never as ad-hoc entries.
var coreComponents = map[string]struct{}{
	"basic":                {},
	"basic salary":         {},
	"ssf":                  {},
	"ssf contribution":     {},
	"social security fund": {},
	"da":                   {},
	"dearness allowance":   {},
	"hra":                  {},
	"house rent allowance": {},
}

// IsCore reports whether a salary component is one of the fixed draft fields.
func IsCore(c engine.SalaryComponent) bool {
	for _, v := range []string{c.Name, c.Code} {
		key := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(v, "_", " ")))
		if _, ok := coreComponents[key]; ok {
			return true
		}
	}
	return false
}

//go:generate mockgen -source=catalog_service.go -destination=mock/catalog_service_mock.go -package=mock
type Service interface {
	PaymentMethods(ctx context.Context, wc workflow.Context) ([]engine.PaymentMethod, error)
	Components(ctx context.Context, wc workflow.Context) ([]engine.SalaryComponent, error)
	Component(ctx context.Context, wc workflow.Context, componentID int64) (engine.SalaryComponent, bool, error)
	Invalidate(ctx context.Context, operatorID string)
}

type service struct {
	engine engine.Client
	rdb    *redis.Client
	ttl    time.Duration
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(client engine.Client, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("catalog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.service")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &service{
		engine: client,
		rdb:    rdb,
		ttl:    ttl,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) PaymentMethods(ctx context.Context, wc workflow.Context) ([]engine.PaymentMethod, error) {
	var out []engine.PaymentMethod
	err := s.cached(ctx, PaymentMethodsKey(wc.OperatorID), &out, func() (any, error) {
		return s.engine.PaymentMethods(ctx, wc)
	})
	return out, err
}

// Components returns the selectable salary components with the core ones removed.
func (s *service) Components(ctx context.Context, wc workflow.Context) ([]engine.SalaryComponent, error) {
	var out []engine.SalaryComponent
	err := s.cached(ctx, ComponentsKey(wc.OperatorID), &out, func() (any, error) {
		all, err := s.engine.SalaryComponents(ctx, wc)
		if err != nil {
			return nil, err
		}
		selectable := make([]engine.SalaryComponent, 0, len(all))
		for _, c := range all {
			if IsCore(c) {
				continue
			}
			selectable = append(selectable, c)
		}
		return selectable, nil
	})
	return out, err
}

func (s *service) Component(ctx context.Context, wc workflow.Context, componentID int64) (engine.SalaryComponent, bool, error) {
	components, err := s.Components(ctx, wc)
	if err != nil {
		return engine.SalaryComponent{}, false, err
	}
	for _, c := range components {
		if c.ID == componentID {
			return c, true, nil
		}
	}
	return engine.SalaryComponent{}, false, nil
}

func (s *service) Invalidate(ctx context.Context, operatorID string) {
	if s.rdb == nil {
		return
	}
	keys := []string{PaymentMethodsKey(operatorID), ComponentsKey(operatorID)}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate catalog cache",
			zap.String("operator_id", operatorID),
			zap.Error(err),
		)
	}
}

// cached serves from Redis when possible and fills through singleflight otherwise.
func (s *service) cached(ctx context.Context, key string, out any, load func() (any, error)) error {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			if json.Unmarshal([]byte(raw), out) == nil {
				return nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		data, err := load()
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return payload, nil
	})
	if err != nil {
		log.Error("catalog fetch failed", zap.String("key", key), zap.Error(err))
		return err
	}

	return json.Unmarshal(v.([]byte), out)
}
