package disbursement

import (
	"time"

	"github.com/google/uuid"
)

// State is the local side of the disbursement state machine. The engine owns
// the authoritative record status; these states track one commit attempt.
type State string

const (
	StatePersisting          State = "PERSISTING"
	StatePendingPaymentLocal State = "PENDING_PAYMENT_LOCAL"
	StateRedirecting         State = "REDIRECTING"
	StateFailed              State = "FAILED"
	StatePaid                State = "PAID"
	StateVoided              State = "VOIDED"
)

// Run is one commit attempt for a period key.
type Run struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID     int64     `gorm:"not null;index:idx_payroll_runs_key"`
	Year           int       `gorm:"not null;index:idx_payroll_runs_key"`
	Month          int       `gorm:"not null;index:idx_payroll_runs_key"`
	OperatorID     string    `gorm:"type:varchar(64);not null"`
	IdempotencyKey string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_payroll_runs_idempotency_key"`
	DraftDigest    string    `gorm:"type:varchar(64);not null"`
	State          State     `gorm:"type:varchar(32);not null"`
	PayrollID      *int64    `gorm:"index"`
	FailureReason  string    `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Run) TableName() string {
	return "payroll_runs"
}
