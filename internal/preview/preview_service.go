package preview

import (
	"context"

	"go-payrun/internal/draft"
	"go-payrun/internal/engine"
	"go-payrun/internal/metrics"
	"go-payrun/internal/period"
	"go-payrun/internal/shared/contextutil"
	"go-payrun/internal/workflow"

	"go.uber.org/zap"
)

// DraftSource is the part of the draft service preview depends on.
type DraftSource interface {
	Resume(ctx context.Context, wc workflow.Context, key *period.Key) (draft.Draft, error)
	RecordPreview(ctx context.Context, wc workflow.Context, key period.Key, digest string) error
}

//go:generate mockgen -source=preview_service.go -destination=mock/preview_service_mock.go -package=mock
type Service interface {
	Preview(ctx context.Context, wc workflow.Context, key period.Key) (Breakdown, error)
}

type service struct {
	engine engine.Client
	drafts DraftSource
	logger *zap.Logger
}

func NewService(client engine.Client, drafts DraftSource, logger ...*zap.Logger) Service {
	l := zap.L().Named("preview.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("preview.service")
	}
	return &service{engine: client, drafts: drafts, logger: l}
}

// Preview asks the engine to calculate the stored draft. Nothing is persisted
// on the engine side; the only local effect of a success is remembering which
// inputs were previewed.
func (s *service) Preview(ctx context.Context, wc workflow.Context, key period.Key) (Breakdown, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	d, err := s.drafts.Resume(ctx, wc, &key)
	if err != nil {
		metrics.PreviewRequests.WithLabelValues("no_session").Inc()
		return Breakdown{}, err
	}

	digest := d.Digest()
	res, err := s.engine.Preview(ctx, wc, d.CalculationRequest())
	if err != nil {
		metrics.PreviewRequests.WithLabelValues("rejected").Inc()
		log.Warn("preview rejected",
			zap.String("key", key.String()),
			zap.Error(err),
		)
		return Breakdown{}, err
	}

	if err := s.drafts.RecordPreview(ctx, wc, key, digest); err != nil {
		log.Error("failed to record preview digest",
			zap.String("key", key.String()),
			zap.Error(err),
		)
		return Breakdown{}, err
	}
	metrics.PreviewRequests.WithLabelValues("ok").Inc()

	return Breakdown{
		EmployeeID:      key.EmployeeID,
		Period:          key.Period(),
		GrossSalary:     res.GrossSalary,
		Sections:        Categorize(res.Components),
		TaxableIncome:   res.TaxableIncome,
		TotalTax:        res.TotalTax,
		TotalDeductions: res.TotalDeductions,
		NetSalary:       res.NetSalary,
		Digest:          digest,
	}, nil
}
