package historyerrors

import (
	"net/http"

	"go-payrun/internal/shared/apperror"
)

var (
	ErrInvalidEmployee = apperror.InvalidField("employeeId")
	ErrInvalidFilter   = apperror.New(
		apperror.CodeValidation,
		"month must be between 1 and 12 and year must be positive",
		http.StatusBadRequest,
	)
)
