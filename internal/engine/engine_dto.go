package engine

import (
	"bytes"
	"encoding/json"
	"strings"

	"go-payrun/internal/period"

	"github.com/shopspring/decimal"
)

const (
	KindEarning   = "EARNING"
	KindDeduction = "DEDUCTION"
)

// CommandCenterRow is one roster entry for a month/year batch.
type CommandCenterRow struct {
	EmployeeID   int64           `json:"empId"`
	FullName     string          `json:"fullName"`
	Email        string          `json:"email,omitempty"`
	Designation  string          `json:"designation,omitempty"`
	Department   string          `json:"department,omitempty"`
	BasicSalary  decimal.Decimal `json:"basicSalary"`
	EarnedSalary decimal.Decimal `json:"earnedSalary"`
	Allowances   decimal.Decimal `json:"totalAllowances"`
}

// Earnings is what the resolver uses to tell READY from NO_EARNINGS.
func (r CommandCenterRow) Earnings() decimal.Decimal {
	return r.EarnedSalary.Add(r.Allowances)
}

func (r CommandCenterRow) RosterEntry() period.RosterEntry {
	return period.RosterEntry{EmployeeID: r.EmployeeID, Name: r.FullName, Earnings: r.Earnings()}
}

type ComponentLine struct {
	ComponentID int64           `json:"componentId,omitempty"`
	Label       string          `json:"componentName"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

// PayrollRecord is the authoritative, engine-owned payroll entity.
type PayrollRecord struct {
	PayrollID          int64           `json:"payrollId"`
	EmployeeID         int64           `json:"empId"`
	EmployeeName       string          `json:"employeeName,omitempty"`
	PayPeriodStart     period.FlexDate `json:"payPeriodStart"`
	PayPeriodEnd       period.FlexDate `json:"payPeriodEnd"`
	Status             string          `json:"status"`
	EarnedSalary       decimal.Decimal `json:"earnedSalary"`
	FestivalBonus      decimal.Decimal `json:"festivalBonus"`
	OtherBonus         decimal.Decimal `json:"otherBonus"`
	SSFContribution    decimal.Decimal `json:"ssfContribution"`
	HouseRentAllowance decimal.Decimal `json:"houseRentAllowance"`
	DearnessAllowance  decimal.Decimal `json:"dearnessAllowance"`
	GrossSalary        decimal.Decimal `json:"grossSalary"`
	TaxableIncome      decimal.Decimal `json:"taxableIncome"`
	TotalTax           decimal.Decimal `json:"totalTax"`
	TotalDeductions    decimal.Decimal `json:"totalDeductions"`
	NetSalary          decimal.Decimal `json:"netSalary"`
	PaymentMethodID    int64           `json:"paymentMethodId,omitempty"`
	Components         []ComponentLine `json:"components,omitempty"`
	ProcessedAt        period.FlexDate `json:"processedAt"`
	PaidAt             period.FlexDate `json:"paidAt"`
	VoidedAt           period.FlexDate `json:"voidedAt"`
}

// PayrollStatus normalizes the engine status; unknown values map to "".
func (r PayrollRecord) PayrollStatus() period.Status {
	s, _ := period.ParseStatus(r.Status)
	return s
}

func (r PayrollRecord) Ref() period.RecordRef {
	return period.RecordRef{
		PayrollID:      r.PayrollID,
		EmployeeID:     r.EmployeeID,
		PayPeriodStart: r.PayPeriodStart,
		Status:         r.PayrollStatus(),
	}
}

type PaymentMethod struct {
	ID   int64  `json:"paymentMethodId"`
	Name string `json:"methodName"`
}

type SalaryComponent struct {
	ID          int64           `json:"componentId"`
	Name        string          `json:"componentName"`
	Code        string          `json:"code,omitempty"`
	Type        string          `json:"componentType"`
	DefaultRate decimal.Decimal `json:"defaultValue"`
}

// CalculationRequest is the body of both preview and process.
type CalculationRequest struct {
	EmployeeID         int64           `json:"empId"`
	EarnedSalary       decimal.Decimal `json:"earnedSalary"`
	FestivalBonus      decimal.Decimal `json:"festivalBonus"`
	OtherBonus         decimal.Decimal `json:"otherBonus"`
	SSFContribution    decimal.Decimal `json:"ssfContribution"`
	HouseRentAllowance decimal.Decimal `json:"houseRentAllowance"`
	DearnessAllowance  decimal.Decimal `json:"dearnessAllowance"`
	ExtraComponents    []ComponentLine `json:"extraComponents"`
	PaymentMethodID    *int64          `json:"paymentMethodId,omitempty"`
	PayPeriodStart     string          `json:"payPeriodStart"`
}

type PreviewResult struct {
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	Components      []ComponentLine `json:"components"`
	TaxableIncome   decimal.Decimal `json:"taxableIncome"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetSalary       decimal.Decimal `json:"netSalary"`
}

// GatewaySession holds the signed redirect fields for one payroll record.
// Values are kept exactly as the engine rendered them.
type GatewaySession struct {
	Amount                RawValue `json:"amount"`
	TaxAmount             RawValue `json:"tax_amount"`
	TotalAmount           RawValue `json:"total_amount"`
	TransactionUUID       RawValue `json:"transaction_uuid"`
	ProductCode           RawValue `json:"product_code"`
	ProductServiceCharge  RawValue `json:"product_service_charge"`
	ProductDeliveryCharge RawValue `json:"product_delivery_charge"`
	SuccessURL            RawValue `json:"success_url"`
	FailureURL            RawValue `json:"failure_url"`
	SignedFieldNames      RawValue `json:"signed_field_names"`
	Signature             RawValue `json:"signature"`
	FormURL               RawValue `json:"esewa_url"`
}

// RawValue accepts a JSON string or a bare literal and keeps its text untouched.
type RawValue string

func (v *RawValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = RawValue(s)
		return nil
	}
	*v = RawValue(strings.TrimSpace(string(b)))
	return nil
}

func (v RawValue) String() string {
	return string(v)
}
