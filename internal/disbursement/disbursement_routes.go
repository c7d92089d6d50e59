package disbursement

import (
	"go-payrun/internal/middleware"
	"go-payrun/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	runs.Use(middleware.ContextLogger(logger))
	{
		runs.POST("/drafts/:employeeId/:period/confirm",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionConfirm),
			middleware.Idempotency(rdb),
			handler.Confirm,
		)
		runs.PUT("/records/:id/void",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionVoid),
			handler.Void,
		)
		runs.POST("/records/:id/email",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionEmail),
			handler.EmailPayslip,
		)
	}
}
