package commandcenter

import (
	"go-payrun/internal/engine"
	"go-payrun/internal/period"

	"github.com/shopspring/decimal"
)

type ListRunsQuery struct {
	Month     int    `form:"month"`
	Year      int    `form:"year"`
	Status    string `form:"status"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	FilterKey string `form:"filter_key"`
	// Refresh bypasses the cached source data, used when returning from the gateway.
	Refresh bool `form:"refresh"`
}

type RunRow struct {
	EmployeeID   int64            `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	Designation  string           `json:"designation,omitempty"`
	Department   string           `json:"department,omitempty"`
	Period       string           `json:"period"`
	Status       period.Status    `json:"status"`
	PayrollID    *int64           `json:"payroll_id,omitempty"`
	Earnings     decimal.Decimal  `json:"earnings"`
	NetSalary    *decimal.Decimal `json:"net_salary,omitempty"`

	CanRun   bool `json:"can_run"`
	Editable bool `json:"editable"`
	CanVoid  bool `json:"can_void"`
	CanEmail bool `json:"can_email"`
}

type RunPage struct {
	Rows       []RunRow `json:"rows"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	FilterKey  string   `json:"filter_key"`
}

// RunStatus is the resolved standing of one period key.
type RunStatus struct {
	Key    period.Key              `json:"key"`
	Status period.Status           `json:"status"`
	Row    engine.CommandCenterRow `json:"row"`
	// Record is the record whose status won, nil when none matched.
	Record *engine.PayrollRecord `json:"record,omitempty"`
}

// sourceData is what gets cached per month/year.
type sourceData struct {
	Rows    []engine.CommandCenterRow `json:"rows"`
	Records []engine.PayrollRecord    `json:"records"`
}
