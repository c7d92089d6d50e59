package draft

import (
	"time"

	"go-payrun/internal/period"

	"github.com/shopspring/decimal"
)

type StartDraftRequest struct {
	EmployeeID int64  `json:"employee_id" binding:"required,gt=0"`
	Period     string `json:"period" binding:"required"`
}

type ResumeDraftQuery struct {
	EmployeeID string `form:"employee_id"`
	Period     string `form:"period"`
}

type UpdateDraftRequest struct {
	EarnedSalary       *Amount `json:"earned_salary"`
	FestivalBonus      *Amount `json:"festival_bonus"`
	OtherBonus         *Amount `json:"other_bonus"`
	SSFContribution    *Amount `json:"ssf_contribution"`
	HouseRentAllowance *Amount `json:"house_rent_allowance"`
	DearnessAllowance  *Amount `json:"dearness_allowance"`
	PaymentMethodID    *int64  `json:"payment_method_id" binding:"omitempty,gte=0"`
}

func (r UpdateDraftRequest) Patch() Patch {
	return Patch{
		EarnedSalary:       r.EarnedSalary,
		FestivalBonus:      r.FestivalBonus,
		OtherBonus:         r.OtherBonus,
		SSFContribution:    r.SSFContribution,
		HouseRentAllowance: r.HouseRentAllowance,
		DearnessAllowance:  r.DearnessAllowance,
		PaymentMethodID:    r.PaymentMethodID,
	}
}

type AddComponentRequest struct {
	ComponentID int64  `json:"component_id" binding:"required,gt=0"`
	Amount      Amount `json:"amount"`
}

type DraftResponse struct {
	EmployeeID   int64         `json:"employee_id"`
	Period       string        `json:"period"`
	EmployeeName string        `json:"employee_name"`
	Status       period.Status `json:"status"`
	PayrollID    int64         `json:"payroll_id,omitempty"`

	EarnedSalary       decimal.Decimal `json:"earned_salary"`
	FestivalBonus      decimal.Decimal `json:"festival_bonus"`
	OtherBonus         decimal.Decimal `json:"other_bonus"`
	SSFContribution    decimal.Decimal `json:"ssf_contribution"`
	HouseRentAllowance decimal.Decimal `json:"house_rent_allowance"`
	DearnessAllowance  decimal.Decimal `json:"dearness_allowance"`

	Components      []ComponentEntry `json:"components"`
	PaymentMethodID *int64           `json:"payment_method_id,omitempty"`
	// Previewed tells the client whether confirm is allowed without a new preview.
	Previewed bool      `json:"previewed"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToResponse(d Draft) DraftResponse {
	components := d.Components
	if components == nil {
		components = []ComponentEntry{}
	}
	return DraftResponse{
		EmployeeID:         d.Key.EmployeeID,
		Period:             d.Key.Period(),
		EmployeeName:       d.EmployeeName,
		Status:             d.Status,
		PayrollID:          d.PayrollID,
		EarnedSalary:       d.EarnedSalary,
		FestivalBonus:      d.FestivalBonus,
		OtherBonus:         d.OtherBonus,
		SSFContribution:    d.SSFContribution,
		HouseRentAllowance: d.HouseRentAllowance,
		DearnessAllowance:  d.DearnessAllowance,
		Components:         components,
		PaymentMethodID:    d.PaymentMethodID,
		Previewed:          d.Previewed(),
		UpdatedAt:          d.UpdatedAt,
	}
}
