package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// payment_method_id -> Payment Method Id
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first binding failure into a VALIDATION_ERROR
// the operator can act on.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := formatFieldName(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		case "gt", "gte", "min":
			return New(CodeValidation, fmt.Sprintf("%s must be at least %s", field, e.Param()), http.StatusBadRequest)
		case "oneof":
			return New(CodeValidation, fmt.Sprintf("%s must be one of [%s]", field, e.Param()), http.StatusBadRequest)
		default:
			return InvalidField(field)
		}
	}

	return New(
		CodeValidation,
		"Invalid input",
		http.StatusBadRequest,
	)
}
