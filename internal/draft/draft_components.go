package draft

import (
	"strings"

	drafterrors "go-payrun/internal/draft/errors"
	"go-payrun/internal/engine"

	"github.com/shopspring/decimal"
)

type ComponentInput struct {
	ComponentID int64
	Label       string
	Amount      decimal.Decimal
	Kind        string
}

func normalizeKind(kind string) (string, bool) {
	switch k := strings.ToUpper(strings.TrimSpace(kind)); k {
	case engine.KindEarning, engine.KindDeduction:
		return k, true
	default:
		return "", false
	}
}

// AddComponent appends an ad-hoc component. On error the draft is returned
// unchanged.
func AddComponent(d Draft, in ComponentInput) (Draft, error) {
	if !in.Amount.IsPositive() {
		return d, drafterrors.ErrInvalidAmount
	}
	kind, ok := normalizeKind(in.Kind)
	if !ok {
		return d, drafterrors.ErrInvalidKind
	}
	for _, c := range d.Components {
		if c.ComponentID == in.ComponentID {
			return d, drafterrors.ErrDuplicateComponent
		}
	}

	next := d.Clone()
	next.Components = append(next.Components, ComponentEntry{
		ComponentID: in.ComponentID,
		Label:       strings.TrimSpace(in.Label),
		Amount:      in.Amount,
		Kind:        kind,
	})
	return next, nil
}

// RemoveComponent drops a component while keeping the order of the rest.
func RemoveComponent(d Draft, componentID int64) (Draft, error) {
	idx := -1
	for i, c := range d.Components {
		if c.ComponentID == componentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, drafterrors.ErrComponentNotInDraft
	}

	next := d.Clone()
	next.Components = append(next.Components[:idx], next.Components[idx+1:]...)
	return next, nil
}
