package catalog

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
	catalog := r.Group("/payroll-runs/catalog")
	catalog.Use(middleware.AuthMiddleware())
	catalog.Use(middleware.ContextLogger(logger))
	{
		catalog.GET("/payment-methods",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead),
			handler.PaymentMethods,
		)

		catalog.GET("/components",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead),
			handler.Components,
		)
	}
}
