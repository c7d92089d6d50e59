package disbursement

import "go-payrun/internal/gateway"

type VoidRequest struct {
	Confirmed bool `json:"confirmed"`
}

type VoidResponse struct {
	PayrollID int64  `json:"payroll_id"`
	Status    string `json:"status"`
}

type EmailResponse struct {
	PayrollID int64 `json:"payroll_id"`
	Queued    bool  `json:"queued"`
}

// RedirectResponse is the JSON form of the gateway hand-off. The HTML form is
// served instead when the client asks for text/html.
type RedirectResponse struct {
	RunID     string          `json:"run_id"`
	PayrollID int64           `json:"payroll_id"`
	Method    string          `json:"method"`
	URL       string          `json:"url"`
	Fields    []gateway.Field `json:"fields"`
}

func ToRedirectResponse(r ConfirmResult) RedirectResponse {
	return RedirectResponse{
		RunID:     r.RunID,
		PayrollID: r.PayrollID,
		Method:    r.Redirect.Method,
		URL:       r.Redirect.URL,
		Fields:    r.Redirect.Fields,
	}
}
