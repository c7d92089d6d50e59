package events

import "time"

// PayrollStatusChangedTopic carries status changes made outside this service,
// such as the gateway callback marking a record PAID.
const PayrollStatusChangedTopic = "payroll.status.changed.v1"

type PayrollStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	PayrollID  int64     `json:"payroll_id"`
	EmployeeID int64     `json:"employee_id"`
	Period     string    `json:"period"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
