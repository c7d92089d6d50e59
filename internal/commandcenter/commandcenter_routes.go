package commandcenter

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
	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	runs.Use(middleware.ContextLogger(logger))
	{
		runs.GET("/command-center",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead),
			handler.ListRuns,
		)
	}
}
