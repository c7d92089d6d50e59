package middleware

import (
	"context"

	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/workflow"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Authorize(ctx context.Context, role, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(workflow.KeyUserID) == "" {
			abort(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Authorize(c.Request.Context(), c.GetString(workflow.KeyRole), resource, action)
		if err != nil {
			abort(c, apperror.ErrInternal)
			return
		}
		if !allowed {
			abort(c, apperror.ErrForbidden.WithDetails(map[string]string{
				"required": resource + ":" + action,
			}))
			return
		}
		c.Next()
	}
}
