package draft

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
	drafts := r.Group("/payroll-runs/drafts")
	drafts.Use(middleware.AuthMiddleware())
	drafts.Use(middleware.ContextLogger(logger))
	drafts.Use(middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRun))
	{
		drafts.POST("", handler.Start)
		drafts.GET("", handler.Resume)
		drafts.PATCH("/:employeeId/:period", handler.Update)
		drafts.DELETE("/:employeeId/:period", handler.Discard)
		drafts.POST("/:employeeId/:period/components", handler.AddComponent)
		drafts.DELETE("/:employeeId/:period/components/:componentId", handler.RemoveComponent)
	}
}
