package period

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-payrun/internal/shared/apperror"
)

var ErrInvalidKey = apperror.New(
	apperror.CodeValidation,
	"invalid payroll period, expected employee id and YYYY-MM",
	http.StatusBadRequest,
)

// Key identifies one employee's one pay cycle. All draft and record lookups use it.
type Key struct {
	EmployeeID int64 `json:"employee_id"`
	Year       int   `json:"year"`
	Month      int   `json:"month"`
}

func NewKey(employeeID int64, year, month int) (Key, error) {
	k := Key{EmployeeID: employeeID, Year: year, Month: month}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

func (k Key) Validate() error {
	if k.EmployeeID <= 0 || k.Year < 1900 || k.Year > 9999 || k.Month < 1 || k.Month > 12 {
		return ErrInvalidKey
	}
	return nil
}

// Period renders the normalized YYYY-MM form used for record matching.
func (k Key) Period() string {
	return FormatPeriod(k.Year, k.Month)
}

func (k Key) String() string {
	return fmt.Sprintf("emp:%d:%s", k.EmployeeID, k.Period())
}

// Start is the first day of the pay period in UTC.
func (k Key) Start() time.Time {
	return time.Date(k.Year, time.Month(k.Month), 1, 0, 0, 0, 0, time.UTC)
}

// IsPast reports whether the period ended before now's month.
func (k Key) IsPast(now time.Time) bool {
	return IsPastPeriod(k.Year, k.Month, now)
}

func IsPastPeriod(year, month int, now time.Time) bool {
	if year != now.Year() {
		return year < now.Year()
	}
	return month < int(now.Month())
}

func FormatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParsePeriod accepts YYYY-MM and returns its year and month.
func ParsePeriod(v string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(v), "-")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidKey
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, ErrInvalidKey
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, ErrInvalidKey
	}
	return year, month, nil
}

// ParseKey builds a key from request parameters: a numeric employee id and YYYY-MM.
func ParseKey(employeeID, yearMonth string) (Key, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(employeeID), 10, 64)
	if err != nil {
		return Key{}, ErrInvalidKey
	}
	year, month, err := ParsePeriod(yearMonth)
	if err != nil {
		return Key{}, err
	}
	return NewKey(id, year, month)
}
