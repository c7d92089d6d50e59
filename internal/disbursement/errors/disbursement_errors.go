package disbursementerrors

import (
	"net/http"

	"go-payrun/internal/shared/apperror"
)

var (
	ErrPaymentMethodRequired = apperror.New(
		apperror.CodePreconditionFailed,
		"Choose a payment method before confirming",
		http.StatusPreconditionFailed,
	)
	// ErrPreviewRequired is returned when the draft changed since its last
	// successful preview, or was never previewed.
	ErrPreviewRequired = apperror.New(
		apperror.CodePreconditionFailed,
		"Preview the payroll again before confirming",
		http.StatusPreconditionFailed,
	)
	ErrStatusChanged = apperror.New(
		apperror.CodeInvalidState,
		"Payroll status changed, reload the Command Center",
		http.StatusConflict,
	).WithDetails(map[string]string{"return_to": "command-center"})
	ErrConfirmInProgress = apperror.New(
		apperror.CodeConflict,
		"This payroll is already being confirmed",
		http.StatusConflict,
	)
	ErrConfirmationRequired = apperror.New(
		apperror.CodePreconditionFailed,
		"Voiding a payroll must be explicitly confirmed",
		http.StatusPreconditionFailed,
	)
	ErrNotPaid = apperror.New(
		apperror.CodeInvalidState,
		"Only paid payroll records allow this action",
		http.StatusConflict,
	)
	ErrVoidForbidden = apperror.New(
		apperror.CodeForbidden,
		"Only administrators can void a payroll",
		http.StatusForbidden,
	)
)
