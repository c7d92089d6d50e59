package history

import (
	"go-payrun/internal/middleware"
	"go-payrun/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	employees := r.Group("/payroll-runs/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("/:employeeId/history",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead),
			handler.History,
		)
	}
}
