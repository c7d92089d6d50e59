// Package workflow carries the per-invocation identity every payroll run
// operation receives explicitly instead of reading ambient session state.
package workflow

import (
	"strings"

	"go-payrun/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin      = "ADMIN"
	RoleHR         = "HR"
	RoleAccountant = "ACCOUNTANT"
)

// Gin keys populated by middleware.AuthMiddleware.
const (
	KeyUserID     = "user_id"
	KeyEmployeeID = "employee_id"
	KeyRole       = "role"
	KeyAuthToken  = "auth_token"
	KeyRequestID  = "request_id"
)

type Context struct {
	OperatorID string
	EmployeeID string
	Role       string
	AuthToken  string
	RequestID  string
}

func (c Context) IsAdmin() bool {
	return strings.EqualFold(c.Role, RoleAdmin)
}

// Validate rejects contexts that cannot talk to the engine on the operator's behalf.
func (c Context) Validate() error {
	if c.OperatorID == "" || c.AuthToken == "" {
		return apperror.ErrUnauthorized
	}
	return nil
}

// FromGin builds the context once per request from values set by the auth middleware.
func FromGin(c *gin.Context) (Context, error) {
	wc := Context{
		OperatorID: c.GetString(KeyUserID),
		EmployeeID: c.GetString(KeyEmployeeID),
		Role:       strings.ToUpper(c.GetString(KeyRole)),
		AuthToken:  c.GetString(KeyAuthToken),
		RequestID:  c.GetString(KeyRequestID),
	}
	if err := wc.Validate(); err != nil {
		return Context{}, err
	}
	return wc, nil
}
