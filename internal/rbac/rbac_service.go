package rbac

import (
	"context"
	"strings"
	"sync"

	"go-payrun/internal/shared/contextutil"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Load(ctx context.Context) error
	Authorize(ctx context.Context, role, resource, action string) (bool, error)
	Permissions(ctx context.Context, role string) ([]string, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService builds the enforcer from the default policies. repo may be nil;
// when set its rows are loaded by Load.
func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	s := &service{repo: repo, enforcer: enforcer, logger: l}
	if err := s.Load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func normalize(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

func (s *service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	policies, inheritance := DefaultPolicies()
	if s.repo != nil {
		extra, err := s.repo.Policies(ctx)
		if err != nil {
			return err
		}
		policies = append(policies, extra...)

		parents, err := s.repo.Inheritance(ctx)
		if err != nil {
			return err
		}
		inheritance = append(inheritance, parents...)
	}

	s.enforcer.ClearPolicy()
	for _, in := range inheritance {
		if _, err := s.enforcer.AddGroupingPolicy(normalize(in.Role), normalize(in.Parent)); err != nil {
			return err
		}
	}
	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(normalize(p.Role), p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded",
		zap.Int("policies", len(policies)),
		zap.Int("inheritance", len(inheritance)),
	)
	return nil
}

func (s *service) Authorize(ctx context.Context, role, resource, action string) (bool, error) {
	role = normalize(role)
	if role == "" {
		return false, nil
	}

	s.mu.RLock()
	allowed, err := s.enforcer.Enforce(role, resource, action)
	s.mu.RUnlock()
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false, err
	}
	return allowed, nil
}

// Permissions lists "resource:action" pairs the role holds, inherited ones
// included.
func (s *service) Permissions(ctx context.Context, role string) ([]string, error) {
	s.mu.RLock()
	perms, err := s.enforcer.GetImplicitPermissionsForUser(normalize(role))
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if len(p) < 3 {
			continue
		}
		v := p[1] + ":" + p[2]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
