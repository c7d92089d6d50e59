package period_test

import (
	"encoding/json"
	"testing"
	"time"

	"go-payrun/internal/period"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	k, err := period.NewKey(7, 2025, 6)
	assert.NoError(t, err)
	assert.Equal(t, "2025-06", k.Period())
	assert.Equal(t, "emp:7:2025-06", k.String())

	_, err = period.NewKey(7, 2025, 13)
	assert.ErrorIs(t, err, period.ErrInvalidKey)

	_, err = period.NewKey(0, 2025, 6)
	assert.ErrorIs(t, err, period.ErrInvalidKey)
}

func TestParsePeriod(t *testing.T) {
	y, m, err := period.ParsePeriod("2025-06")
	assert.NoError(t, err)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 6, m)

	_, _, err = period.ParsePeriod("June 2025")
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	key, err := period.ParseKey("7", "2025-06")
	assert.NoError(t, err)
	assert.Equal(t, period.Key{EmployeeID: 7, Year: 2025, Month: 6}, key)
	assert.Equal(t, "emp:7:2025-06", key.String())

	_, err = period.ParseKey("x", "2025-06")
	assert.ErrorIs(t, err, period.ErrInvalidKey)

	_, err = period.ParseKey("7", "2025-13")
	assert.ErrorIs(t, err, period.ErrInvalidKey)
}

func TestFlexDate_Unmarshal(t *testing.T) {
	cases := map[string]string{
		"array":          `[2025,6,1]`,
		"array datetime": `[2025,6,1,10,30]`,
		"iso date":       `"2025-06-01"`,
		"iso datetime":   `"2025-06-15T00:00:00"`,
		"rfc3339":        `"2025-06-01T00:00:00Z"`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var d period.FlexDate
			assert.NoError(t, json.Unmarshal([]byte(raw), &d))
			assert.Equal(t, "2025-06", d.Period())
		})
	}

	t.Run("null", func(t *testing.T) {
		var d period.FlexDate
		assert.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.Equal(t, "", d.Period())
	})

	t.Run("garbage", func(t *testing.T) {
		var d period.FlexDate
		assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	})
}

func TestStatus_Editable(t *testing.T) {
	assert.True(t, period.StatusReady.Editable())
	assert.True(t, period.StatusPendingPayment.Editable())
	assert.False(t, period.StatusPaid.Editable())
	assert.False(t, period.StatusVoided.Editable())
	assert.False(t, period.StatusNoRecord.Editable())
}

func date(y, m int) period.FlexDate {
	return period.NewFlexDate(time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC))
}

func TestResolve(t *testing.T) {
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	roster := []period.RosterEntry{
		{EmployeeID: 1, Earnings: decimal.NewFromInt(50000)},
		{EmployeeID: 2, Earnings: decimal.NewFromInt(40000)},
		{EmployeeID: 3, Earnings: decimal.Zero},
		{EmployeeID: 4, Earnings: decimal.NewFromInt(10)},
		{EmployeeID: 5, Earnings: decimal.NewFromInt(10)},
	}
	records := []period.RecordRef{
		{PayrollID: 100, EmployeeID: 2, PayPeriodStart: date(2025, 6), Status: period.StatusPendingPayment},
		{PayrollID: 101, EmployeeID: 4, PayPeriodStart: date(2025, 6), Status: period.StatusVoided},
		{PayrollID: 102, EmployeeID: 5, PayPeriodStart: date(2025, 6), Status: period.StatusVoided},
		{PayrollID: 103, EmployeeID: 5, PayPeriodStart: date(2025, 6), Status: period.StatusPaid},
		{PayrollID: 104, EmployeeID: 1, PayPeriodStart: date(2025, 5), Status: period.StatusPaid},
	}

	got := period.Resolve(roster, records, 2025, 6, now)

	assert.Equal(t, period.StatusReady, got[0].Status)
	assert.Nil(t, got[0].Record)
	assert.Equal(t, period.StatusPendingPayment, got[1].Status)
	assert.Equal(t, int64(100), got[1].Record.PayrollID)
	assert.Equal(t, period.StatusNoEarnings, got[2].Status)
	assert.Equal(t, period.StatusVoided, got[3].Status)
	assert.Equal(t, period.StatusPaid, got[4].Status, "non-voided record wins over a voided one")
	assert.Equal(t, int64(103), got[4].Record.PayrollID)

	t.Run("past period without record", func(t *testing.T) {
		res := period.ResolveOne(roster[0], records, 2025, 4, now)
		assert.Equal(t, period.StatusNoRecord, res.Status)
	})

	t.Run("past period with record", func(t *testing.T) {
		res := period.ResolveOne(roster[0], records, 2025, 5, now)
		assert.Equal(t, period.StatusPaid, res.Status)
	})
}
