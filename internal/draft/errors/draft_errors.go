package drafterrors

import (
	"net/http"

	"go-payrun/internal/shared/apperror"
)

var (
	// ErrNoActiveSession always tells the client where to go next.
	ErrNoActiveSession = apperror.New(
		apperror.CodeNoActiveSession,
		"No active payroll session. Start the run again from the Command Center",
		http.StatusNotFound,
	).WithDetails(map[string]string{"return_to": "command-center"})
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"Payroll for this period can no longer be edited",
		http.StatusConflict,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeValidation,
		"Component amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrDuplicateComponent = apperror.New(
		apperror.CodeValidation,
		"Component is already part of this payroll run",
		http.StatusBadRequest,
	)
	ErrUnknownComponent = apperror.New(
		apperror.CodeValidation,
		"Component is not available for ad-hoc adjustment",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeValidation,
		"Component kind must be EARNING or DEDUCTION",
		http.StatusBadRequest,
	)
	ErrComponentNotInDraft = apperror.New(
		apperror.CodeNotFound,
		"Component is not part of this payroll run",
		http.StatusNotFound,
	)
	ErrUnknownPaymentMethod = apperror.New(
		apperror.CodeValidation,
		"Payment method is not available",
		http.StatusBadRequest,
	)
)
