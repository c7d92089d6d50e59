package draft

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"go-payrun/internal/engine"
	"go-payrun/internal/period"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
)

type ComponentEntry struct {
	ComponentID int64           `json:"component_id"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
}

// Draft is the operator's scratch state for one period key. It is never the
// authoritative payroll record; that lives in the engine.
type Draft struct {
	Key          period.Key    `json:"key"`
	OperatorID   string        `json:"operator_id"`
	EmployeeName string        `json:"employee_name"`
	Status       period.Status `json:"status"`
	// PayrollID is set when the draft was resumed from a pending record.
	PayrollID int64 `json:"payroll_id,omitempty"`

	EarnedSalary       decimal.Decimal `json:"earned_salary"`
	FestivalBonus      decimal.Decimal `json:"festival_bonus"`
	OtherBonus         decimal.Decimal `json:"other_bonus"`
	SSFContribution    decimal.Decimal `json:"ssf_contribution"`
	HouseRentAllowance decimal.Decimal `json:"house_rent_allowance"`
	DearnessAllowance  decimal.Decimal `json:"dearness_allowance"`

	Components      []ComponentEntry `json:"components"`
	PaymentMethodID *int64           `json:"payment_method_id,omitempty"`

	// PreviewDigest is the Digest of the inputs last previewed successfully.
	PreviewDigest string    `json:"preview_digest,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot is the frozen copy handed to disbursement.
type Snapshot struct {
	Draft    Draft     `json:"draft"`
	Digest   string    `json:"digest"`
	FrozenAt time.Time `json:"frozen_at"`
}

// Seed carries the values a new draft starts from.
type Seed struct {
	Status       period.Status
	EmployeeName string
	EarnedSalary decimal.Decimal
	// Record is the existing pending record, if any.
	Record *engine.PayrollRecord
}

// NewFromSeed builds a fresh draft. A pending record's figures take precedence
// over roster values so the operator continues from what was persisted.
func NewFromSeed(key period.Key, operatorID string, seed Seed, now time.Time) Draft {
	d := Draft{
		Key:          key,
		OperatorID:   operatorID,
		EmployeeName: seed.EmployeeName,
		Status:       seed.Status,
		EarnedSalary: seed.EarnedSalary,
		Components:   []ComponentEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if rec := seed.Record; rec != nil {
		d.PayrollID = rec.PayrollID
		d.EarnedSalary = rec.EarnedSalary
		d.FestivalBonus = rec.FestivalBonus
		d.OtherBonus = rec.OtherBonus
		d.SSFContribution = rec.SSFContribution
		d.HouseRentAllowance = rec.HouseRentAllowance
		d.DearnessAllowance = rec.DearnessAllowance
		if rec.PaymentMethodID > 0 {
			id := rec.PaymentMethodID
			d.PaymentMethodID = &id
		}
		for _, c := range rec.Components {
			if c.ComponentID == 0 || !c.Amount.IsPositive() {
				continue
			}
			d.Components = append(d.Components, ComponentEntry{
				ComponentID: c.ComponentID,
				Label:       c.Label,
				Amount:      c.Amount,
				Kind:        c.Type,
			})
		}
	}
	return d
}

// Clone returns a deep copy; drafts are passed by value but share slices.
func (d Draft) Clone() Draft {
	c := d
	c.Components = append([]ComponentEntry(nil), d.Components...)
	if c.Components == nil {
		c.Components = []ComponentEntry{}
	}
	if d.PaymentMethodID != nil {
		id := *d.PaymentMethodID
		c.PaymentMethodID = &id
	}
	return c
}

// CalculationRequest is the engine body for both preview and process.
func (d Draft) CalculationRequest() engine.CalculationRequest {
	extra := make([]engine.ComponentLine, 0, len(d.Components))
	for _, c := range d.Components {
		extra = append(extra, engine.ComponentLine{
			ComponentID: c.ComponentID,
			Label:       c.Label,
			Amount:      c.Amount,
			Type:        c.Kind,
		})
	}

	req := engine.CalculationRequest{
		EmployeeID:         d.Key.EmployeeID,
		EarnedSalary:       d.EarnedSalary,
		FestivalBonus:      d.FestivalBonus,
		OtherBonus:         d.OtherBonus,
		SSFContribution:    d.SSFContribution,
		HouseRentAllowance: d.HouseRentAllowance,
		DearnessAllowance:  d.DearnessAllowance,
		ExtraComponents:    extra,
		PayPeriodStart:     d.Key.Start().Format("2006-01-02"),
	}
	if d.PaymentMethodID != nil {
		id := *d.PaymentMethodID
		req.PaymentMethodID = &id
	}
	return req
}

// Digest fingerprints every input the engine sees. Decimals marshal without
// trailing zeros, so 50000 and 50000.00 hash the same.
func (d Draft) Digest() string {
	req := d.CalculationRequest()
	payload, _ := json.Marshal(struct {
		Key     string                    `json:"key"`
		Request engine.CalculationRequest `json:"request"`
	}{Key: d.Key.String(), Request: req})

	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Previewed reports whether the current inputs are the ones last previewed.
func (d Draft) Previewed() bool {
	return d.PreviewDigest != "" && d.PreviewDigest == d.Digest()
}
