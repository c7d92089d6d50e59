package events

import "time"

const (
	PayrollDisbursementInitiatedTopic = "payroll.disbursement.initiated.v1"
	PayrollVoidedTopic                = "payroll.voided.v1"
)

type PayrollDisbursementInitiatedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	RunID           string    `json:"run_id"`
	PayrollID       int64     `json:"payroll_id"`
	EmployeeID      int64     `json:"employee_id"`
	Period          string    `json:"period"`
	OperatorID      string    `json:"operator_id"`
	TransactionUUID string    `json:"transaction_uuid"`
	TotalAmount     string    `json:"total_amount"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type PayrollVoidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PayrollID  int64     `json:"payroll_id"`
	EmployeeID int64     `json:"employee_id"`
	Period     string    `json:"period"`
	VoidedBy   string    `json:"voided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
