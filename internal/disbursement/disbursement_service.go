package disbursement

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"go-payrun/internal/commandcenter"
	disbursementerrors "go-payrun/internal/disbursement/errors"
	"go-payrun/internal/draft"
	"go-payrun/internal/engine"
	"go-payrun/internal/events"
	"go-payrun/internal/gateway"
	"go-payrun/internal/messaging/kafka"
	"go-payrun/internal/metrics"
	"go-payrun/internal/period"
	"go-payrun/internal/rbac"
	"go-payrun/internal/shared/contextutil"
	"go-payrun/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// persistingTimeout bounds how long a PERSISTING run blocks new attempts. A
// run stuck longer than this was abandoned mid-flight and its outcome at the
// engine is unknown.
const persistingTimeout = 2 * time.Minute

type DraftSession interface {
	Commit(ctx context.Context, wc workflow.Context, key period.Key) (draft.Snapshot, error)
	ClearPreview(ctx context.Context, wc workflow.Context, key period.Key) error
	Discard(ctx context.Context, wc workflow.Context, key period.Key) error
}

type CommandCenter interface {
	StatusOf(ctx context.Context, wc workflow.Context, key period.Key, refresh bool) (commandcenter.RunStatus, error)
	Invalidate(ctx context.Context, year, month int)
}

type Authorizer interface {
	Authorize(ctx context.Context, role, resource, action string) (bool, error)
}

type ConfirmResult struct {
	RunID     string         `json:"run_id"`
	PayrollID int64          `json:"payroll_id"`
	Redirect  gateway.Handle `json:"redirect"`
}

//go:generate mockgen -source=disbursement_service.go -destination=mock/disbursement_service_mock.go -package=mock
type Service interface {
	Confirm(ctx context.Context, wc workflow.Context, key period.Key) (ConfirmResult, error)
	Void(ctx context.Context, wc workflow.Context, payrollID int64, confirmed bool) error
	EmailPayslip(ctx context.Context, wc workflow.Context, payrollID int64) error
	SyncStatus(ctx context.Context, payrollID int64, status period.Status) error
}

type Dependencies struct {
	DB            *sql.DB
	Runs          Repository
	Outbox        kafka.OutboxRepository
	Engine        engine.Client
	Drafts        DraftSession
	CommandCenter CommandCenter
	Redirect      gateway.RedirectInitiator
	Defaults      gateway.Defaults
	Authorizer    Authorizer
}

type service struct {
	db       *sql.DB
	runs     Repository
	outbox   kafka.OutboxRepository
	engine   engine.Client
	drafts   DraftSession
	cc       CommandCenter
	redirect gateway.RedirectInitiator
	defaults gateway.Defaults
	authz    Authorizer
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("disbursement.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("disbursement.service")
	}
	return &service{
		db:       deps.DB,
		runs:     deps.Runs,
		outbox:   deps.Outbox,
		engine:   deps.Engine,
		drafts:   deps.Drafts,
		cc:       deps.CommandCenter,
		redirect: deps.Redirect,
		defaults: deps.Defaults,
		authz:    deps.Authorizer,
		sf:       &singleflight.Group{},
		now:      time.Now,
		logger:   l,
	}
}

// Confirm persists the draft through the engine and returns the gateway
// hand-off. Concurrent confirms for one key share a single attempt.
func (s *service) Confirm(ctx context.Context, wc workflow.Context, key period.Key) (ConfirmResult, error) {
	v, err, shared := s.sf.Do(key.String(), func() (interface{}, error) {
		return s.confirm(ctx, wc, key)
	})
	if shared {
		metrics.ConfirmCoalesced.Inc()
	}
	if err != nil {
		return ConfirmResult{}, err
	}
	return v.(ConfirmResult), nil
}

func (s *service) transition(run *Run, state State) {
	run.State = state
	run.UpdatedAt = s.now()
	metrics.DisbursementTransitions.WithLabelValues(string(state)).Inc()
}

func (s *service) confirm(ctx context.Context, wc workflow.Context, key period.Key) (ConfirmResult, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(zap.String("key", key.String()))

	snap, err := s.drafts.Commit(ctx, wc, key)
	if err != nil {
		return ConfirmResult{}, err
	}
	if snap.Draft.PaymentMethodID == nil {
		return ConfirmResult{}, disbursementerrors.ErrPaymentMethodRequired
	}
	if snap.Draft.PreviewDigest != snap.Digest {
		return ConfirmResult{}, disbursementerrors.ErrPreviewRequired
	}

	st, err := s.cc.StatusOf(ctx, wc, key, true)
	if err != nil {
		return ConfirmResult{}, err
	}
	if !st.Status.Editable() {
		log.Warn("confirm rejected, status changed", zap.String("status", string(st.Status)))
		return ConfirmResult{}, disbursementerrors.ErrStatusChanged
	}

	run, err := s.runs.Latest(ctx, key)
	if err != nil {
		return ConfirmResult{}, err
	}
	if run != nil && run.State == StatePersisting && s.now().Sub(run.UpdatedAt) < persistingTimeout {
		return ConfirmResult{}, disbursementerrors.ErrConfirmInProgress
	}

	switch {
	case run != nil && run.State == StatePendingPaymentLocal && run.PayrollID != nil && run.DraftDigest == snap.Digest:
		log.Info("reusing persisted payroll", zap.Int64("payroll_id", *run.PayrollID))
	case run != nil && run.State == StatePersisting && run.DraftDigest == snap.Digest:
		// the engine may already hold this record; resend under the same key
		log.Warn("resuming abandoned attempt",
			zap.String("run_id", run.ID.String()),
			zap.Time("updated_at", run.UpdatedAt),
		)
		s.transition(run, StatePersisting)
		if err := s.runs.Update(ctx, run); err != nil {
			return ConfirmResult{}, err
		}
		if err := s.process(ctx, wc, key, snap, run); err != nil {
			return ConfirmResult{}, err
		}
	default:
		if run != nil && run.State == StatePersisting {
			if err := s.supersede(ctx, run); err != nil {
				return ConfirmResult{}, err
			}
		}
		run, err = s.persist(ctx, wc, key, snap)
		if err != nil {
			return ConfirmResult{}, err
		}
	}
	payrollID := *run.PayrollID

	handle, sess, err := s.initiate(ctx, wc, payrollID)
	if err != nil {
		// the record exists now; the Command Center must show it as pending
		s.cc.Invalidate(ctx, key.Year, key.Month)
		log.Error("initiate payment failed",
			zap.Int64("payroll_id", payrollID),
			zap.String("run_id", run.ID.String()),
			zap.Error(err),
		)
		return ConfirmResult{}, err
	}

	if err := s.markRedirecting(ctx, wc, key, run, sess); err != nil {
		log.Error("failed to record redirect", zap.String("run_id", run.ID.String()), zap.Error(err))
		return ConfirmResult{}, err
	}

	if err := s.drafts.Discard(ctx, wc, key); err != nil {
		log.Warn("failed to discard confirmed draft", zap.Error(err))
	}
	s.cc.Invalidate(ctx, key.Year, key.Month)

	log.Info("disbursement initiated",
		zap.String("run_id", run.ID.String()),
		zap.Int64("payroll_id", payrollID),
	)
	return ConfirmResult{RunID: run.ID.String(), PayrollID: payrollID, Redirect: handle}, nil
}

// persist records a new attempt and processes it under its own idempotency
// key.
func (s *service) persist(ctx context.Context, wc workflow.Context, key period.Key, snap draft.Snapshot) (*Run, error) {
	now := s.now()
	run := &Run{
		ID:             uuid.New(),
		EmployeeID:     key.EmployeeID,
		Year:           key.Year,
		Month:          key.Month,
		OperatorID:     wc.OperatorID,
		IdempotencyKey: uuid.NewString(),
		DraftDigest:    snap.Digest,
		CreatedAt:      now,
	}
	s.transition(run, StatePersisting)
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	if err := s.process(ctx, wc, key, snap, run); err != nil {
		return nil, err
	}
	return run, nil
}

// process calls the engine once for run. Whenever the attempt does not end in
// PENDING_PAYMENT_LOCAL the preview is cleared, so the operator has to preview
// again before anything is resubmitted.
func (s *service) process(ctx context.Context, wc workflow.Context, key period.Key, snap draft.Snapshot, run *Run) error {
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("key", key.String()),
		zap.String("run_id", run.ID.String()),
	)
	clearPreview := func() {
		if err := s.drafts.ClearPreview(ctx, wc, key); err != nil {
			log.Error("failed to clear preview", zap.Error(err))
		}
	}

	rec, err := s.engine.Process(ctx, wc, snap.Draft.CalculationRequest(), run.IdempotencyKey)
	if err != nil && engine.IsUpstreamFailure(err) {
		// the engine may have stored the record before failing; the run stays
		// PERSISTING so a later confirm resends under the same key
		clearPreview()
		log.Warn("process outcome unknown", zap.Error(err))
		return err
	}
	if err != nil {
		run.FailureReason = err.Error()
		s.transition(run, StateFailed)
		if uerr := s.runs.Update(ctx, run); uerr != nil {
			log.Error("failed to mark run failed", zap.Error(uerr))
		}
		clearPreview()
		log.Warn("process failed", zap.Error(err))
		return err
	}

	id := rec.PayrollID
	run.PayrollID = &id
	s.transition(run, StatePendingPaymentLocal)
	if err := s.runs.Update(ctx, run); err != nil {
		// the ledger still says PERSISTING; a later confirm resends under
		// the same idempotency key
		clearPreview()
		log.Error("payroll persisted but ledger update failed",
			zap.Int64("payroll_id", id),
			zap.Error(err),
		)
		return err
	}
	log.Info("payroll persisted", zap.Int64("payroll_id", id))
	return nil
}

// supersede closes an abandoned attempt whose draft has since been edited and
// previewed again.
func (s *service) supersede(ctx context.Context, run *Run) error {
	run.FailureReason = "superseded by a new preview"
	s.transition(run, StateFailed)
	return s.runs.Update(ctx, run)
}

func (s *service) initiate(ctx context.Context, wc workflow.Context, payrollID int64) (gateway.Handle, engine.GatewaySession, error) {
	raw, err := s.engine.InitiatePayment(ctx, wc, payrollID)
	if err != nil {
		return gateway.Handle{}, engine.GatewaySession{}, err
	}
	sess, err := gateway.NewSession(raw, s.defaults)
	if err != nil {
		return gateway.Handle{}, engine.GatewaySession{}, err
	}
	handle, err := s.redirect.BuildRedirect(sess)
	if err != nil {
		return gateway.Handle{}, engine.GatewaySession{}, err
	}
	return handle, raw, nil
}

func (s *service) markRedirecting(ctx context.Context, wc workflow.Context, key period.Key, run *Run, sess engine.GatewaySession) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	s.transition(run, StateRedirecting)
	if err := s.runs.WithTx(tx).Update(ctx, run); err != nil {
		return err
	}

	if s.outbox != nil {
		event := events.PayrollDisbursementInitiatedEvent{
			EventType:       "payroll_disbursement_initiated",
			RequestID:       wc.RequestID,
			RunID:           run.ID.String(),
			PayrollID:       *run.PayrollID,
			EmployeeID:      key.EmployeeID,
			Period:          key.Period(),
			OperatorID:      wc.OperatorID,
			TransactionUUID: sess.TransactionUUID.String(),
			TotalAmount:     sess.TotalAmount.String(),
			OccurredAt:      s.now().UTC(),
		}
		if err := s.enqueue(ctx, tx, wc.RequestID, "payroll_run", run.ID.String(), event.EventType, events.PayrollDisbursementInitiatedTopic, event); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, requestID, aggregateType, aggregateID, eventType, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) paidRecord(ctx context.Context, wc workflow.Context, payrollID int64) (engine.PayrollRecord, error) {
	rec, err := s.engine.GetPayroll(ctx, wc, payrollID)
	if err != nil {
		return engine.PayrollRecord{}, err
	}
	if rec.PayrollStatus() != period.StatusPaid {
		return engine.PayrollRecord{}, disbursementerrors.ErrNotPaid
	}
	return rec, nil
}

// Void reverses a PAID record. It needs an explicit confirmation and the
// admin role.
func (s *service) Void(ctx context.Context, wc workflow.Context, payrollID int64, confirmed bool) error {
	log := contextutil.GetLogger(ctx, s.logger).With(zap.Int64("payroll_id", payrollID))

	if !confirmed {
		return disbursementerrors.ErrConfirmationRequired
	}
	allowed, err := s.authz.Authorize(ctx, wc.Role, rbac.ResourcePayrollRun, rbac.ActionVoid)
	if err != nil {
		return err
	}
	if !allowed {
		log.Warn("void denied", zap.String("role", wc.Role), zap.String("operator_id", wc.OperatorID))
		return disbursementerrors.ErrVoidForbidden
	}

	rec, err := s.paidRecord(ctx, wc, payrollID)
	if err != nil {
		return err
	}
	if err := s.engine.Void(ctx, wc, payrollID); err != nil {
		log.Error("engine void failed", zap.Error(err))
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	run, err := s.runs.WithTx(tx).FindByPayrollID(ctx, payrollID)
	if err != nil {
		return err
	}
	if run != nil {
		s.transition(run, StateVoided)
		if err := s.runs.WithTx(tx).Update(ctx, run); err != nil {
			return err
		}
	}

	if s.outbox != nil {
		event := events.PayrollVoidedEvent{
			EventType:  "payroll_voided",
			RequestID:  wc.RequestID,
			PayrollID:  payrollID,
			EmployeeID: rec.EmployeeID,
			Period:     rec.PayPeriodStart.Period(),
			VoidedBy:   wc.OperatorID,
			OccurredAt: s.now().UTC(),
		}
		if err := s.enqueue(ctx, tx, wc.RequestID, "payroll", strconv.FormatInt(payrollID, 10), event.EventType, events.PayrollVoidedTopic, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.Error(err))
		return err
	}

	if !rec.PayPeriodStart.IsZero() {
		s.cc.Invalidate(ctx, rec.PayPeriodStart.Year(), int(rec.PayPeriodStart.Month()))
	}
	log.Info("payroll voided", zap.String("operator_id", wc.OperatorID))
	return nil
}

// EmailPayslip asks the engine to mail the payslip of a PAID record. It has
// no effect on payroll state.
func (s *service) EmailPayslip(ctx context.Context, wc workflow.Context, payrollID int64) error {
	if _, err := s.paidRecord(ctx, wc, payrollID); err != nil {
		return err
	}
	if err := s.engine.EmailPayslip(ctx, wc, payrollID); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("email payslip failed",
			zap.Int64("payroll_id", payrollID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// SyncStatus moves the local run to a terminal state reported by the engine.
// Records without a local run are ignored.
func (s *service) SyncStatus(ctx context.Context, payrollID int64, status period.Status) error {
	if !status.Terminal() {
		return nil
	}
	state := StatePaid
	if status == period.StatusVoided {
		state = StateVoided
	}

	run, err := s.runs.FindByPayrollID(ctx, payrollID)
	if err != nil || run == nil || run.State == state {
		return err
	}
	s.transition(run, state)
	return s.runs.Update(ctx, run)
}
