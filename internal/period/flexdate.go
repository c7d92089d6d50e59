package period

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexDate decodes dates the engine sends either as an array ([2025,6,1] or
// [2025,6,1,0,0]) or as an ISO string ("2025-06-01", "2025-06-01T00:00:00Z").
type FlexDate struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
}

func (d *FlexDate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	if b[0] == '[' {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("flexdate: %w", err)
		}
		if len(parts) < 2 {
			return fmt.Errorf("flexdate: array needs at least year and month, got %v", parts)
		}
		day, hour, minute, sec := 1, 0, 0, 0
		if len(parts) > 2 {
			day = parts[2]
		}
		if len(parts) > 3 {
			hour = parts[3]
		}
		if len(parts) > 4 {
			minute = parts[4]
		}
		if len(parts) > 5 {
			sec = parts[5]
		}
		d.Time = time.Date(parts[0], time.Month(parts[1]), day, hour, minute, sec, 0, time.UTC)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("flexdate: %w", err)
	}
	return d.parseString(s)
}

func (d *FlexDate) parseString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("flexdate: unsupported date %q", s)
}

func (d FlexDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// Period returns the normalized YYYY-MM, or "" for a zero date.
func (d FlexDate) Period() string {
	if d.IsZero() {
		return ""
	}
	return FormatPeriod(d.Year(), int(d.Month()))
}

func NewFlexDate(t time.Time) FlexDate {
	return FlexDate{Time: t}
}
