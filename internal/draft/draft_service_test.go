package draft_test

import (
	"context"
	"errors"
	"testing"

	"go-payrun/internal/commandcenter"
	"go-payrun/internal/draft"
	drafterrors "go-payrun/internal/draft/errors"
	"go-payrun/internal/engine"
	"go-payrun/internal/period"
	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/workflow"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeStatusSource struct {
	statuses map[period.Key]commandcenter.RunStatus
	calls    int
}

func (f *fakeStatusSource) StatusOf(ctx context.Context, wc workflow.Context, key period.Key, refresh bool) (commandcenter.RunStatus, error) {
	f.calls++
	st, ok := f.statuses[key]
	if !ok {
		return commandcenter.RunStatus{}, errors.New("not on roster")
	}
	return st, nil
}

type fakeCatalog struct {
	PaymentMethodsFn func(ctx context.Context, wc workflow.Context) ([]engine.PaymentMethod, error)
	ComponentFn      func(ctx context.Context, wc workflow.Context, id int64) (engine.SalaryComponent, bool, error)
}

func (f *fakeCatalog) PaymentMethods(ctx context.Context, wc workflow.Context) ([]engine.PaymentMethod, error) {
	return f.PaymentMethodsFn(ctx, wc)
}

func (f *fakeCatalog) Component(ctx context.Context, wc workflow.Context, id int64) (engine.SalaryComponent, bool, error) {
	return f.ComponentFn(ctx, wc, id)
}

var (
	operator = workflow.Context{OperatorID: "op-1", AuthToken: "t", Role: workflow.RoleHR}
	emp7     = period.Key{EmployeeID: 7, Year: 2025, Month: 6}
	emp8     = period.Key{EmployeeID: 8, Year: 2025, Month: 6}
)

func readyStatus(key period.Key, name string, earned int64) commandcenter.RunStatus {
	return commandcenter.RunStatus{
		Key:    key,
		Status: period.StatusReady,
		Row:    engine.CommandCenterRow{EmployeeID: key.EmployeeID, FullName: name, EarnedSalary: decimal.NewFromInt(earned)},
	}
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{
		PaymentMethodsFn: func(context.Context, workflow.Context) ([]engine.PaymentMethod, error) {
			return []engine.PaymentMethod{{ID: 1, Name: "Bank Transfer"}, {ID: 2, Name: "eSewa"}}, nil
		},
		ComponentFn: func(ctx context.Context, wc workflow.Context, id int64) (engine.SalaryComponent, bool, error) {
			switch id {
			case 12:
				return engine.SalaryComponent{ID: 12, Name: "Overtime", Type: "EARNING"}, true, nil
			case 15:
				return engine.SalaryComponent{ID: 15, Name: "Advance Recovery", Type: "DEDUCTION"}, true, nil
			}
			return engine.SalaryComponent{}, false, nil
		},
	}
}

type draftDeps struct {
	repo    draft.Repository
	status  *fakeStatusSource
	catalog *fakeCatalog
	service draft.Service
}

func setupDraftTest() *draftDeps {
	deps := &draftDeps{
		repo: draft.NewMemoryRepository(),
		status: &fakeStatusSource{statuses: map[period.Key]commandcenter.RunStatus{
			emp7: readyStatus(emp7, "Asha Gurung", 50000),
			emp8: readyStatus(emp8, "Bikash Rai", 42000),
		}},
		catalog: defaultCatalog(),
	}
	deps.service = draft.NewService(deps.repo, deps.status, deps.catalog)
	return deps
}

func TestDraftService_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("ready period seeds from roster", func(t *testing.T) {
		deps := setupDraftTest()

		d, err := deps.service.Start(ctx, operator, emp7)

		assert.NoError(t, err)
		assert.Equal(t, emp7, d.Key)
		assert.Equal(t, "Asha Gurung", d.EmployeeName)
		assert.Equal(t, period.StatusReady, d.Status)
		assert.True(t, d.EarnedSalary.Equal(decimal.NewFromInt(50000)))
		assert.Empty(t, d.Components)
		assert.Nil(t, d.PaymentMethodID)

		active, err := deps.repo.Active(ctx, operator.OperatorID)
		assert.NoError(t, err)
		assert.Equal(t, emp7, *active)
	})

	t.Run("pending period seeds from record", func(t *testing.T) {
		deps := setupDraftTest()
		deps.status.statuses[emp7] = commandcenter.RunStatus{
			Key:    emp7,
			Status: period.StatusPendingPayment,
			Row:    engine.CommandCenterRow{EmployeeID: 7, FullName: "Asha Gurung", EarnedSalary: decimal.NewFromInt(50000)},
			Record: &engine.PayrollRecord{
				PayrollID:       101,
				EmployeeID:      7,
				EarnedSalary:    decimal.NewFromInt(48000),
				FestivalBonus:   decimal.NewFromInt(2000),
				PaymentMethodID: 2,
				Components: []engine.ComponentLine{
					{ComponentID: 12, Label: "Overtime", Amount: decimal.NewFromInt(1500), Type: "EARNING"},
					{Label: "Income Tax", Amount: decimal.NewFromInt(900), Type: "DEDUCTION"},
				},
			},
		}

		d, err := deps.service.Start(ctx, operator, emp7)

		assert.NoError(t, err)
		assert.Equal(t, int64(101), d.PayrollID)
		assert.True(t, d.EarnedSalary.Equal(decimal.NewFromInt(48000)))
		assert.True(t, d.FestivalBonus.Equal(decimal.NewFromInt(2000)))
		assert.Equal(t, int64(2), *d.PaymentMethodID)
		assert.Len(t, d.Components, 1)
		assert.Equal(t, int64(12), d.Components[0].ComponentID)
		assert.False(t, d.Previewed())
	})

	for _, status := range []period.Status{period.StatusPaid, period.StatusVoided, period.StatusNoRecord, period.StatusNoEarnings} {
		t.Run("rejects "+string(status), func(t *testing.T) {
			deps := setupDraftTest()
			st := deps.status.statuses[emp7]
			st.Status = status
			deps.status.statuses[emp7] = st

			_, err := deps.service.Start(ctx, operator, emp7)

			assert.ErrorIs(t, err, drafterrors.ErrNotEditable)
			_, getErr := deps.repo.Get(ctx, emp7)
			assert.ErrorIs(t, getErr, draft.ErrNotFound)
		})
	}

	t.Run("existing draft is resumed unchanged", func(t *testing.T) {
		deps := setupDraftTest()
		_, err := deps.service.Start(ctx, operator, emp7)
		assert.NoError(t, err)
		bonus := draft.NewAmount(decimal.NewFromInt(3000))
		_, err = deps.service.Update(ctx, operator, emp7, draft.Patch{FestivalBonus: &bonus})
		assert.NoError(t, err)

		d, err := deps.service.Start(ctx, operator, emp7)

		assert.NoError(t, err)
		assert.True(t, d.FestivalBonus.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("starting another key replaces the previous draft", func(t *testing.T) {
		deps := setupDraftTest()
		_, err := deps.service.Start(ctx, operator, emp7)
		assert.NoError(t, err)

		_, err = deps.service.Start(ctx, operator, emp8)
		assert.NoError(t, err)

		_, err = deps.repo.Get(ctx, emp7)
		assert.ErrorIs(t, err, draft.ErrNotFound)
		active, _ := deps.repo.Active(ctx, operator.OperatorID)
		assert.Equal(t, emp8, *active)
	})

	t.Run("another operator's draft on the old key is left alone", func(t *testing.T) {
		deps := setupDraftTest()
		other := workflow.Context{OperatorID: "op-2", AuthToken: "t", Role: workflow.RoleHR}
		_, err := deps.service.Start(ctx, other, emp7)
		assert.NoError(t, err)
		_, err = deps.service.Start(ctx, operator, emp7)
		assert.NoError(t, err)

		_, err = deps.service.Start(ctx, operator, emp8)
		assert.NoError(t, err)

		_, err = deps.repo.Get(ctx, emp7)
		assert.NoError(t, err)
	})

	t.Run("invalid key", func(t *testing.T) {
		deps := setupDraftTest()

		_, err := deps.service.Start(ctx, operator, period.Key{EmployeeID: 7, Year: 2025, Month: 0})

		assert.ErrorIs(t, err, period.ErrInvalidKey)
		assert.Equal(t, 0, deps.status.calls)
	})
}

func TestDraftService_Resume(t *testing.T) {
	ctx := context.Background()

	t.Run("no key fails closed", func(t *testing.T) {
		deps := setupDraftTest()

		_, err := deps.service.Resume(ctx, operator, nil)

		assert.ErrorIs(t, err, drafterrors.ErrNoActiveSession)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, apperror.CodeNoActiveSession, httpErr.Code)
		assert.Equal(t, map[string]string{"return_to": "command-center"}, httpErr.Details)
	})

	t.Run("no stored draft", func(t *testing.T) {
		deps := setupDraftTest()

		_, err := deps.service.Resume(ctx, operator, &emp7)

		assert.ErrorIs(t, err, drafterrors.ErrNoActiveSession)
	})

	t.Run("reload restores edits", func(t *testing.T) {
		deps := setupDraftTest()
		_, err := deps.service.Start(ctx, operator, emp7)
		assert.NoError(t, err)
		_, err = deps.service.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 12, Amount: decimal.NewFromInt(2000)})
		assert.NoError(t, err)

		// a new service over the same store stands in for a page reload
		reloaded := draft.NewService(deps.repo, deps.status, deps.catalog)
		key := period.Key{EmployeeID: 7, Year: 2025, Month: 6}
		d, err := reloaded.Resume(ctx, operator, &key)

		assert.NoError(t, err)
		assert.Len(t, d.Components, 1)
		assert.Equal(t, "Overtime", d.Components[0].Label)
		assert.True(t, d.Components[0].Amount.Equal(decimal.NewFromInt(2000)))
	})
}

func TestDraftService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("amounts are clamped and digest cleared", func(t *testing.T) {
		deps := setupDraftTest()
		d, _ := deps.service.Start(ctx, operator, emp7)
		assert.NoError(t, deps.service.RecordPreview(ctx, operator, emp7, d.Digest()))

		negative := draft.NewAmount(decimal.NewFromInt(-500))
		var garbage draft.Amount
		assert.NoError(t, garbage.UnmarshalJSON([]byte(`"abc"`)))
		bonus := draft.NewAmount(decimal.RequireFromString("2500.50"))

		updated, err := deps.service.Update(ctx, operator, emp7, draft.Patch{
			OtherBonus:        &negative,
			DearnessAllowance: &garbage,
			FestivalBonus:     &bonus,
		})

		assert.NoError(t, err)
		assert.True(t, updated.OtherBonus.IsZero())
		assert.True(t, updated.DearnessAllowance.IsZero())
		assert.True(t, updated.FestivalBonus.Equal(decimal.RequireFromString("2500.5")))
		assert.True(t, updated.EarnedSalary.Equal(decimal.NewFromInt(50000)))
		assert.Empty(t, updated.PreviewDigest)
		assert.False(t, updated.Previewed())
	})

	t.Run("payment method must be in the catalog", func(t *testing.T) {
		deps := setupDraftTest()
		_, _ = deps.service.Start(ctx, operator, emp7)
		unknown := int64(9)

		_, err := deps.service.Update(ctx, operator, emp7, draft.Patch{PaymentMethodID: &unknown})

		assert.ErrorIs(t, err, drafterrors.ErrUnknownPaymentMethod)
	})

	t.Run("payment method set and cleared", func(t *testing.T) {
		deps := setupDraftTest()
		_, _ = deps.service.Start(ctx, operator, emp7)
		esewa, none := int64(2), int64(0)

		d, err := deps.service.Update(ctx, operator, emp7, draft.Patch{PaymentMethodID: &esewa})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), *d.PaymentMethodID)

		d, err = deps.service.Update(ctx, operator, emp7, draft.Patch{PaymentMethodID: &none})
		assert.NoError(t, err)
		assert.Nil(t, d.PaymentMethodID)
	})

	t.Run("no draft", func(t *testing.T) {
		deps := setupDraftTest()

		_, err := deps.service.Update(ctx, operator, emp7, draft.Patch{})

		assert.ErrorIs(t, err, drafterrors.ErrNoActiveSession)
	})
}

func TestDraftService_Components(t *testing.T) {
	ctx := context.Background()

	t.Run("add then remove restores the list", func(t *testing.T) {
		deps := setupDraftTest()
		start, _ := deps.service.Start(ctx, operator, emp7)

		added, err := deps.service.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 15, Amount: decimal.NewFromInt(1000)})
		assert.NoError(t, err)
		assert.Len(t, added.Components, 1)
		assert.Equal(t, "DEDUCTION", added.Components[0].Kind)
		assert.Equal(t, "Advance Recovery", added.Components[0].Label)

		removed, err := deps.service.RemoveComponent(ctx, operator, emp7, 15)
		assert.NoError(t, err)
		assert.Equal(t, start.Components, removed.Components)
		assert.Equal(t, start.Digest(), removed.Digest())
	})

	t.Run("duplicate leaves the draft unchanged", func(t *testing.T) {
		deps := setupDraftTest()
		_, _ = deps.service.Start(ctx, operator, emp7)
		_, err := deps.service.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 12, Amount: decimal.NewFromInt(1000)})
		assert.NoError(t, err)

		_, err = deps.service.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 12, Amount: decimal.NewFromInt(500)})

		assert.ErrorIs(t, err, drafterrors.ErrDuplicateComponent)
		stored, _ := deps.repo.Get(ctx, emp7)
		assert.Len(t, stored.Components, 1)
		assert.True(t, stored.Components[0].Amount.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("unknown component", func(t *testing.T) {
		deps := setupDraftTest()
		_, _ = deps.service.Start(ctx, operator, emp7)

		_, err := deps.service.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 99, Amount: decimal.NewFromInt(100)})

		assert.ErrorIs(t, err, drafterrors.ErrUnknownComponent)
	})

	t.Run("zero amount", func(t *testing.T) {
		deps := setupDraftTest()
		_, _ = deps.service.Start(ctx, operator, emp7)

		_, err := deps.service.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 12})

		assert.ErrorIs(t, err, drafterrors.ErrInvalidAmount)
	})

	t.Run("remove missing component", func(t *testing.T) {
		deps := setupDraftTest()
		_, _ = deps.service.Start(ctx, operator, emp7)

		_, err := deps.service.RemoveComponent(ctx, operator, emp7, 12)

		assert.ErrorIs(t, err, drafterrors.ErrComponentNotInDraft)
	})
}

func TestDraftService_Preview(t *testing.T) {
	ctx := context.Background()
	deps := setupDraftTest()
	d, _ := deps.service.Start(ctx, operator, emp7)
	digest := d.Digest()

	// the draft changed while the engine was computing
	bonus := draft.NewAmount(decimal.NewFromInt(100))
	_, err := deps.service.Update(ctx, operator, emp7, draft.Patch{OtherBonus: &bonus})
	assert.NoError(t, err)

	assert.NoError(t, deps.service.RecordPreview(ctx, operator, emp7, digest))
	stored, _ := deps.repo.Get(ctx, emp7)
	assert.False(t, stored.Previewed())

	assert.NoError(t, deps.service.RecordPreview(ctx, operator, emp7, stored.Digest()))
	stored, _ = deps.repo.Get(ctx, emp7)
	assert.True(t, stored.Previewed())

	assert.NoError(t, deps.service.ClearPreview(ctx, operator, emp7))
	stored, _ = deps.repo.Get(ctx, emp7)
	assert.False(t, stored.Previewed())
}

func TestDraftService_CommitAndDiscard(t *testing.T) {
	ctx := context.Background()
	deps := setupDraftTest()
	_, _ = deps.service.Start(ctx, operator, emp7)
	_, _ = deps.service.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 12, Amount: decimal.NewFromInt(700)})

	snap, err := deps.service.Commit(ctx, operator, emp7)
	assert.NoError(t, err)
	assert.Equal(t, snap.Draft.Digest(), snap.Digest)
	assert.Len(t, snap.Draft.Components, 1)
	assert.False(t, snap.FrozenAt.IsZero())

	// later edits do not reach the frozen copy
	_, _ = deps.service.RemoveComponent(ctx, operator, emp7, 12)
	assert.Len(t, snap.Draft.Components, 1)

	assert.NoError(t, deps.service.Discard(ctx, operator, emp7))
	_, err = deps.service.Resume(ctx, operator, &emp7)
	assert.ErrorIs(t, err, drafterrors.ErrNoActiveSession)
	active, _ := deps.repo.Active(ctx, operator.OperatorID)
	assert.Nil(t, active)

	_, err = deps.service.Commit(ctx, operator, emp7)
	assert.ErrorIs(t, err, drafterrors.ErrNoActiveSession)
}

func TestDraftService_PeriodSettledAfterStart(t *testing.T) {
	ctx := context.Background()
	earned := draft.NewAmount(decimal.NewFromInt(99999))

	mutations := map[string]func(draft.Service) error{
		"update": func(svc draft.Service) error {
			_, err := svc.Update(ctx, operator, emp7, draft.Patch{EarnedSalary: &earned})
			return err
		},
		"add component": func(svc draft.Service) error {
			_, err := svc.AddComponent(ctx, operator, emp7, draft.ComponentInput{ComponentID: 12, Amount: decimal.NewFromInt(700)})
			return err
		},
		"remove component": func(svc draft.Service) error {
			_, err := svc.RemoveComponent(ctx, operator, emp7, 12)
			return err
		},
		"commit": func(svc draft.Service) error {
			_, err := svc.Commit(ctx, operator, emp7)
			return err
		},
	}

	for name, mutate := range mutations {
		for _, status := range []period.Status{period.StatusPaid, period.StatusVoided} {
			t.Run(name+" after "+string(status), func(t *testing.T) {
				deps := setupDraftTest()
				_, err := deps.service.Start(ctx, operator, emp7)
				assert.NoError(t, err)

				st := deps.status.statuses[emp7]
				st.Status = status
				deps.status.statuses[emp7] = st

				err = mutate(deps.service)

				assert.ErrorIs(t, err, drafterrors.ErrNotEditable)
				_, getErr := deps.repo.Get(ctx, emp7)
				assert.ErrorIs(t, getErr, draft.ErrNotFound)
			})
		}
	}
}

func TestDraftService_Drop(t *testing.T) {
	ctx := context.Background()
	deps := setupDraftTest()
	_, err := deps.service.Start(ctx, operator, emp7)
	assert.NoError(t, err)

	assert.NoError(t, deps.service.Drop(ctx, emp7))
	_, err = deps.service.Resume(ctx, operator, &emp7)
	assert.ErrorIs(t, err, drafterrors.ErrNoActiveSession)

	assert.NoError(t, deps.service.Drop(ctx, emp8))
}
