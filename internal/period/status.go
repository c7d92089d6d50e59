package period

import "strings"

type Status string

const (
	StatusReady          Status = "READY"
	StatusNoRecord       Status = "NO_RECORD"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusVoided         Status = "VOIDED"
	// StatusNoEarnings is the soft state for a current period with nothing to pay.
	StatusNoEarnings Status = "NO_EARNINGS"
)

// ParseStatus normalizes a status string coming from the engine or a query filter.
func ParseStatus(v string) (Status, bool) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	switch s {
	case StatusReady, StatusNoRecord, StatusPendingPayment, StatusPaid, StatusVoided, StatusNoEarnings:
		return s, true
	}
	return "", false
}

// Editable is true only for statuses whose inputs the operator may change.
func (s Status) Editable() bool {
	return s == StatusReady || s == StatusPendingPayment
}

func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusVoided
}
