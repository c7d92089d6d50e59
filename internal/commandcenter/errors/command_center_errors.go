package commandcentererrors

import (
	"net/http"

	"go-payrun/internal/shared/apperror"
)

var (
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeValidation,
		"Unknown payroll status filter",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeValidation,
		"Month must be 1-12 and year must be a four digit year",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInRoster = apperror.New(
		apperror.CodeNotFound,
		"Employee is not part of the payroll roster for this period",
		http.StatusNotFound,
	)
)
