package preview

import (
	"github.com/shopspring/decimal"
)

const (
	SectionGrossEarnings = "Gross Earnings"
	SectionStatutory     = "Statutory (pre-tax)"
	SectionOther         = "Other (post-tax)"
)

type Line struct {
	ComponentID int64           `json:"component_id,omitempty"`
	Label       string          `json:"label"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
}

type Section struct {
	Title string          `json:"title"`
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// Breakdown is the engine's preview arranged for the confirmation screen. It
// is never persisted.
type Breakdown struct {
	EmployeeID      int64           `json:"employee_id"`
	Period          string          `json:"period"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	Sections        []Section       `json:"sections"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	// Digest identifies the draft inputs this breakdown was computed from.
	Digest string `json:"digest"`
}
