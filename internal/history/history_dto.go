package history

import (
	"time"

	"go-payrun/internal/engine"
	"go-payrun/internal/period"
	"go-payrun/internal/workflow"

	"github.com/shopspring/decimal"
)

type Filter struct {
	Month int `form:"month"`
	Year  int `form:"year"`
}

type Entry struct {
	PayrollID       int64           `json:"payroll_id"`
	EmployeeID      int64           `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	Period          string          `json:"period"`
	Status          period.Status   `json:"status"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	ProcessedAt     *string         `json:"processed_at,omitempty"`
	PaidAt          *string         `json:"paid_at,omitempty"`
	VoidedAt        *string         `json:"voided_at,omitempty"`
	CanEmail        bool            `json:"can_email"`
	CanVoid         bool            `json:"can_void"`
}

func stamp(d period.FlexDate) *string {
	if d.IsZero() {
		return nil
	}
	s := d.Format(time.RFC3339)
	return &s
}

func toEntry(r engine.PayrollRecord, wc workflow.Context) Entry {
	status := r.PayrollStatus()
	return Entry{
		PayrollID:       r.PayrollID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Period:          r.PayPeriodStart.Period(),
		Status:          status,
		GrossSalary:     r.GrossSalary,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		ProcessedAt:     stamp(r.ProcessedAt),
		PaidAt:          stamp(r.PaidAt),
		VoidedAt:        stamp(r.VoidedAt),
		CanEmail:        status == period.StatusPaid,
		CanVoid:         status == period.StatusPaid && wc.IsAdmin(),
	}
}
