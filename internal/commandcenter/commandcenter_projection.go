package commandcenter

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-payrun/internal/engine"
	"go-payrun/internal/period"
)

const DefaultPageSize = 10

// resolveAll joins roster rows with records for the period. The returned
// slice follows roster order.
func resolveAll(data sourceData, year, month int, now time.Time) []RunStatus {
	roster := make([]period.RosterEntry, len(data.Rows))
	for i, r := range data.Rows {
		roster[i] = r.RosterEntry()
	}
	refs := make([]period.RecordRef, len(data.Records))
	byID := make(map[int64]engine.PayrollRecord, len(data.Records))
	for i, rec := range data.Records {
		refs[i] = rec.Ref()
		byID[rec.PayrollID] = rec
	}

	resolved := period.Resolve(roster, refs, year, month, now)
	out := make([]RunStatus, len(resolved))
	for i, res := range resolved {
		st := RunStatus{
			Key:    period.Key{EmployeeID: res.EmployeeID, Year: year, Month: month},
			Status: res.Status,
			Row:    data.Rows[i],
		}
		if res.Record != nil {
			if rec, ok := byID[res.Record.PayrollID]; ok {
				st.Record = &rec
			}
		}
		out[i] = st
	}
	return out
}

// toRow derives the action flags from the resolved status. Voided and
// no-record periods carry no actions at all.
func toRow(st RunStatus, isAdmin bool) RunRow {
	row := RunRow{
		EmployeeID:   st.Key.EmployeeID,
		EmployeeName: st.Row.FullName,
		Designation:  st.Row.Designation,
		Department:   st.Row.Department,
		Period:       st.Key.Period(),
		Status:       st.Status,
		Earnings:     st.Row.Earnings(),
		CanRun:       st.Status.Editable(),
		Editable:     st.Status.Editable(),
		CanVoid:      st.Status == period.StatusPaid && isAdmin,
		CanEmail:     st.Status == period.StatusPaid,
	}
	if st.Record != nil {
		id := st.Record.PayrollID
		net := st.Record.NetSalary
		row.PayrollID = &id
		row.NetSalary = &net
	}
	return row
}

// FilterKey fingerprints the inputs that reset pagination.
func FilterKey(year, month int, status period.Status, search string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", period.FormatPeriod(year, month), status, strings.ToLower(strings.TrimSpace(search)))
	return strconv.FormatUint(h.Sum64(), 36)
}

func matches(row RunRow, status period.Status, search string) bool {
	if status != "" && row.Status != status {
		return false
	}
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row.EmployeeName), search) ||
		strings.Contains(strconv.FormatInt(row.EmployeeID, 10), search)
}

// paginate filters, sorts by employee ID descending and cuts one page. A
// request carrying a stale filter key is served page 1.
func paginate(rows []RunRow, status period.Status, search string, page, pageSize int, currentKey, requestedKey string) RunPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	search = strings.ToLower(strings.TrimSpace(search))

	filtered := make([]RunRow, 0, len(rows))
	for _, r := range rows {
		if matches(r, status, search) {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].EmployeeID > filtered[j].EmployeeID
	})

	if requestedKey != "" && requestedKey != currentKey {
		page = 1
	}
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return RunPage{
		Rows:       filtered[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		FilterKey:  currentKey,
	}
}
