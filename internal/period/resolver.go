package period

import (
	"time"

	"github.com/shopspring/decimal"
)

// RosterEntry is one employee of the batch for the selected period.
type RosterEntry struct {
	EmployeeID int64
	Name       string
	Earnings   decimal.Decimal
}

// RecordRef is the part of a payroll record the resolver needs.
type RecordRef struct {
	PayrollID      int64
	EmployeeID     int64
	PayPeriodStart FlexDate
	Status         Status
}

type Resolution struct {
	EmployeeID int64
	Status     Status
	// Record is the record whose status won, nil when none matched.
	Record *RecordRef
}

// Resolve joins a roster with payroll records for year/month. It has no side
// effects and keeps the roster's order.
func Resolve(roster []RosterEntry, records []RecordRef, year, month int, now time.Time) []Resolution {
	target := FormatPeriod(year, month)
	byEmployee := make(map[int64][]RecordRef, len(records))
	for _, r := range records {
		if r.PayPeriodStart.Period() != target {
			continue
		}
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	out := make([]Resolution, len(roster))
	for i, entry := range roster {
		out[i] = resolveEntry(entry, byEmployee[entry.EmployeeID], year, month, now)
	}
	return out
}

// ResolveOne resolves a single employee.
func ResolveOne(entry RosterEntry, records []RecordRef, year, month int, now time.Time) Resolution {
	return Resolve([]RosterEntry{entry}, records, year, month, now)[0]
}

func resolveEntry(entry RosterEntry, matches []RecordRef, year, month int, now time.Time) Resolution {
	res := Resolution{EmployeeID: entry.EmployeeID}

	var voided *RecordRef
	for i := range matches {
		m := matches[i]
		if m.Status == StatusVoided {
			if voided == nil {
				voided = &m
			}
			continue
		}
		res.Status = m.Status
		res.Record = &m
		return res
	}

	switch {
	case voided != nil:
		res.Status = StatusVoided
		res.Record = voided
	case IsPastPeriod(year, month, now):
		res.Status = StatusNoRecord
	case !entry.Earnings.IsZero():
		res.Status = StatusReady
	default:
		res.Status = StatusNoEarnings
	}
	return res
}
