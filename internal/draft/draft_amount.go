package draft

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money edit coming from the operator. Whatever arrives is coerced
// to a non-negative decimal; anything unparsable counts as zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(v decimal.Decimal) Amount {
	return Amount{Decimal: Clamp(v)}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	var s string
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		a.Decimal = decimal.Zero
		return nil
	case b[0] == '"':
		if err := json.Unmarshal(b, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
	default:
		s = string(b)
	}

	a.Decimal = ParseAmount(s)
	return nil
}

// ParseAmount applies the clamping rule to raw text.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return Clamp(v)
}

func Clamp(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
