package preview

import (
	"go-payrun/internal/config"
	"go-payrun/internal/middleware"
	"go-payrun/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	limits config.RateLimitConfig,
	logger *zap.Logger,
) {
	drafts := r.Group("/payroll-runs/drafts")
	drafts.Use(middleware.AuthMiddleware())
	drafts.Use(middleware.ContextLogger(logger))
	{
		drafts.POST("/:employeeId/:period/preview",
			middleware.RateLimitByUser(rate.Limit(limits.PreviewPerSecond), limits.PreviewBurst),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionPreview),
			handler.Preview,
		)
	}
}
