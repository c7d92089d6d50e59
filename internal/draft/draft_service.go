package draft

import (
	"context"
	"errors"
	"time"

	"go-payrun/internal/commandcenter"
	drafterrors "go-payrun/internal/draft/errors"
	"go-payrun/internal/engine"
	"go-payrun/internal/metrics"
	"go-payrun/internal/period"
	"go-payrun/internal/shared/contextutil"
	"go-payrun/internal/workflow"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatusSource resolves the current status of one period key.
type StatusSource interface {
	StatusOf(ctx context.Context, wc workflow.Context, key period.Key, refresh bool) (commandcenter.RunStatus, error)
}

// Catalog is the subset of the catalog service the draft needs for validation.
type Catalog interface {
	PaymentMethods(ctx context.Context, wc workflow.Context) ([]engine.PaymentMethod, error)
	Component(ctx context.Context, wc workflow.Context, componentID int64) (engine.SalaryComponent, bool, error)
}

// Patch is a partial edit of the draft's fixed fields. Nil fields are left as is.
type Patch struct {
	EarnedSalary       *Amount
	FestivalBonus      *Amount
	OtherBonus         *Amount
	SSFContribution    *Amount
	HouseRentAllowance *Amount
	DearnessAllowance  *Amount
	// PaymentMethodID of 0 clears the selection.
	PaymentMethodID *int64
}

//go:generate mockgen -source=draft_service.go -destination=mock/draft_service_mock.go -package=mock
type Service interface {
	Start(ctx context.Context, wc workflow.Context, key period.Key) (Draft, error)
	Resume(ctx context.Context, wc workflow.Context, key *period.Key) (Draft, error)
	Update(ctx context.Context, wc workflow.Context, key period.Key, patch Patch) (Draft, error)
	AddComponent(ctx context.Context, wc workflow.Context, key period.Key, in ComponentInput) (Draft, error)
	RemoveComponent(ctx context.Context, wc workflow.Context, key period.Key, componentID int64) (Draft, error)
	RecordPreview(ctx context.Context, wc workflow.Context, key period.Key, digest string) error
	ClearPreview(ctx context.Context, wc workflow.Context, key period.Key) error
	Commit(ctx context.Context, wc workflow.Context, key period.Key) (Snapshot, error)
	Discard(ctx context.Context, wc workflow.Context, key period.Key) error
	// Drop removes the draft for key without an operator, for status changes
	// observed out of band.
	Drop(ctx context.Context, key period.Key) error
}

type service struct {
	repo    Repository
	status  StatusSource
	catalog Catalog
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(repo Repository, status StatusSource, catalog Catalog, logger ...*zap.Logger) Service {
	l := zap.L().Named("draft.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("draft.service")
	}
	return &service{
		repo:    repo,
		status:  status,
		catalog: catalog,
		now:     time.Now,
		logger:  l,
	}
}

func observe(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.DraftOperations.WithLabelValues(operation, outcome).Inc()
}

func (s *service) Start(ctx context.Context, wc workflow.Context, key period.Key) (d Draft, err error) {
	defer func() { observe("start", err) }()
	log := contextutil.GetLogger(ctx, s.logger)

	if err := key.Validate(); err != nil {
		return Draft{}, err
	}

	st, err := s.status.StatusOf(ctx, wc, key, true)
	if err != nil {
		return Draft{}, err
	}
	if !st.Status.Editable() {
		// a draft left over from before the record was paid or voided is stale
		if err := s.repo.Delete(ctx, key); err != nil {
			log.Warn("failed to drop stale draft", zap.String("key", key.String()), zap.Error(err))
		}
		log.Info("draft start rejected",
			zap.String("key", key.String()),
			zap.String("status", string(st.Status)),
		)
		return Draft{}, drafterrors.ErrNotEditable
	}

	d, err = s.repo.Get(ctx, key)
	switch {
	case err == nil:
		log.Debug("draft resumed", zap.String("key", key.String()))
	case errors.Is(err, ErrNotFound):
		seed := Seed{
			Status:       st.Status,
			EmployeeName: st.Row.FullName,
			EarnedSalary: st.Row.EarnedSalary,
		}
		if st.Status == period.StatusPendingPayment {
			seed.Record = st.Record
		}
		d = NewFromSeed(key, wc.OperatorID, seed, s.now())
		if err := s.repo.Put(ctx, d); err != nil {
			log.Error("failed to store new draft", zap.String("key", key.String()), zap.Error(err))
			return Draft{}, err
		}
		log.Info("draft started",
			zap.String("key", key.String()),
			zap.String("status", string(st.Status)),
			zap.Int64("payroll_id", d.PayrollID),
		)
	default:
		return Draft{}, err
	}

	if err := s.switchActive(ctx, wc.OperatorID, key); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// switchActive points the operator at key and drops the draft they were
// working on before, if it was theirs.
func (s *service) switchActive(ctx context.Context, operatorID string, key period.Key) error {
	prev, err := s.repo.Active(ctx, operatorID)
	if err != nil {
		return err
	}
	if prev != nil && *prev != key {
		old, err := s.repo.Get(ctx, *prev)
		if err == nil && old.OperatorID == operatorID {
			if err := s.repo.Delete(ctx, *prev); err != nil {
				return err
			}
			s.logger.Info("previous draft replaced",
				zap.String("operator_id", operatorID),
				zap.String("previous", prev.String()),
				zap.String("current", key.String()),
			)
		}
	}
	return s.repo.SetActive(ctx, operatorID, key)
}

func (s *service) Resume(ctx context.Context, wc workflow.Context, key *period.Key) (Draft, error) {
	if key == nil {
		return Draft{}, drafterrors.ErrNoActiveSession
	}
	return s.load(ctx, *key)
}

func (s *service) load(ctx context.Context, key period.Key) (Draft, error) {
	if err := key.Validate(); err != nil {
		return Draft{}, drafterrors.ErrNoActiveSession
	}
	d, err := s.repo.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return Draft{}, drafterrors.ErrNoActiveSession
	}
	if err != nil {
		return Draft{}, err
	}
	return d, nil
}

// loadEditable loads the draft and checks the period's current status, not
// the one captured at Start. A draft whose period was paid or voided since is
// deleted.
func (s *service) loadEditable(ctx context.Context, wc workflow.Context, key period.Key) (Draft, error) {
	d, err := s.load(ctx, key)
	if err != nil {
		return Draft{}, err
	}
	if !d.Status.Editable() {
		return Draft{}, drafterrors.ErrNotEditable
	}

	st, err := s.status.StatusOf(ctx, wc, key, false)
	if err != nil {
		return Draft{}, err
	}
	if !st.Status.Editable() {
		log := contextutil.GetLogger(ctx, s.logger)
		if err := s.repo.Delete(ctx, key); err != nil {
			log.Warn("failed to drop stale draft", zap.String("key", key.String()), zap.Error(err))
		}
		log.Info("draft period no longer editable",
			zap.String("key", key.String()),
			zap.String("status", string(st.Status)),
		)
		return Draft{}, drafterrors.ErrNotEditable
	}
	return d, nil
}

// mutate loads an editable draft, applies fn and stores the result with the
// preview digest cleared. Nothing is written when fn fails.
func (s *service) mutate(ctx context.Context, wc workflow.Context, key period.Key, fn func(Draft) (Draft, error)) (Draft, error) {
	d, err := s.loadEditable(ctx, wc, key)
	if err != nil {
		return Draft{}, err
	}

	next, err := fn(d)
	if err != nil {
		return d, err
	}
	next.PreviewDigest = ""
	next.UpdatedAt = s.now()
	if err := s.repo.Put(ctx, next); err != nil {
		return Draft{}, err
	}
	return next, nil
}

func (s *service) Update(ctx context.Context, wc workflow.Context, key period.Key, patch Patch) (d Draft, err error) {
	defer func() { observe("update", err) }()

	if patch.PaymentMethodID != nil && *patch.PaymentMethodID != 0 {
		if err := s.checkPaymentMethod(ctx, wc, *patch.PaymentMethodID); err != nil {
			return Draft{}, err
		}
	}

	return s.mutate(ctx, wc, key, func(d Draft) (Draft, error) {
		next := d.Clone()
		set := func(dst *decimal.Decimal, a *Amount) {
			if a != nil {
				*dst = Clamp(a.Decimal)
			}
		}
		set(&next.EarnedSalary, patch.EarnedSalary)
		set(&next.FestivalBonus, patch.FestivalBonus)
		set(&next.OtherBonus, patch.OtherBonus)
		set(&next.SSFContribution, patch.SSFContribution)
		set(&next.HouseRentAllowance, patch.HouseRentAllowance)
		set(&next.DearnessAllowance, patch.DearnessAllowance)

		if patch.PaymentMethodID != nil {
			if *patch.PaymentMethodID == 0 {
				next.PaymentMethodID = nil
			} else {
				id := *patch.PaymentMethodID
				next.PaymentMethodID = &id
			}
		}
		return next, nil
	})
}

func (s *service) checkPaymentMethod(ctx context.Context, wc workflow.Context, id int64) error {
	methods, err := s.catalog.PaymentMethods(ctx, wc)
	if err != nil {
		return err
	}
	for _, m := range methods {
		if m.ID == id {
			return nil
		}
	}
	return drafterrors.ErrUnknownPaymentMethod
}

// AddComponent takes the label and kind from the catalog; only the id and
// amount come from the operator.
func (s *service) AddComponent(ctx context.Context, wc workflow.Context, key period.Key, in ComponentInput) (d Draft, err error) {
	defer func() { observe("add_component", err) }()

	if !in.Amount.IsPositive() {
		return Draft{}, drafterrors.ErrInvalidAmount
	}
	comp, ok, err := s.catalog.Component(ctx, wc, in.ComponentID)
	if err != nil {
		return Draft{}, err
	}
	if !ok {
		return Draft{}, drafterrors.ErrUnknownComponent
	}
	in.Label = comp.Name
	in.Kind = comp.Type

	return s.mutate(ctx, wc, key, func(d Draft) (Draft, error) {
		return AddComponent(d, in)
	})
}

func (s *service) RemoveComponent(ctx context.Context, wc workflow.Context, key period.Key, componentID int64) (d Draft, err error) {
	defer func() { observe("remove_component", err) }()

	return s.mutate(ctx, wc, key, func(d Draft) (Draft, error) {
		return RemoveComponent(d, componentID)
	})
}

// RecordPreview stores digest only if the draft still has the inputs that
// were previewed; an edit that raced the engine call wins.
func (s *service) RecordPreview(ctx context.Context, wc workflow.Context, key period.Key, digest string) error {
	d, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if d.Digest() != digest {
		contextutil.GetLogger(ctx, s.logger).Info("draft changed during preview, digest not recorded",
			zap.String("key", key.String()),
		)
		return nil
	}
	d.PreviewDigest = digest
	return s.repo.Put(ctx, d)
}

func (s *service) ClearPreview(ctx context.Context, wc workflow.Context, key period.Key) error {
	d, err := s.load(ctx, key)
	if err != nil {
		return err
	}
	if d.PreviewDigest == "" {
		return nil
	}
	d.PreviewDigest = ""
	return s.repo.Put(ctx, d)
}

func (s *service) Commit(ctx context.Context, wc workflow.Context, key period.Key) (snap Snapshot, err error) {
	defer func() { observe("commit", err) }()

	d, err := s.loadEditable(ctx, wc, key)
	if err != nil {
		return Snapshot{}, err
	}
	frozen := d.Clone()
	return Snapshot{Draft: frozen, Digest: frozen.Digest(), FrozenAt: s.now()}, nil
}

func (s *service) Discard(ctx context.Context, wc workflow.Context, key period.Key) (err error) {
	defer func() { observe("discard", err) }()

	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	active, err := s.repo.Active(ctx, wc.OperatorID)
	if err != nil {
		return err
	}
	if active != nil && *active == key {
		return s.repo.ClearActive(ctx, wc.OperatorID)
	}
	return nil
}

func (s *service) Drop(ctx context.Context, key period.Key) (err error) {
	defer func() { observe("drop", err) }()

	err = s.repo.Delete(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
