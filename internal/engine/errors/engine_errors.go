package engineerrors

import (
	"net/http"

	"go-payrun/internal/shared/apperror"
)

var (
	// ErrRemoteRejected carries the engine's own message verbatim (via WithMessage).
	ErrRemoteRejected = apperror.New(
		apperror.CodeRemoteRejected,
		"payroll engine rejected the request",
		http.StatusUnprocessableEntity,
	)
	ErrUpstreamFailure = apperror.New(
		apperror.CodeUpstreamFailure,
		"payroll engine is unavailable, please retry",
		http.StatusBadGateway,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrMalformedResponse = apperror.New(
		apperror.CodeUpstreamFailure,
		"payroll engine returned an unreadable response",
		http.StatusBadGateway,
	)
)
