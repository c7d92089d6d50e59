package commandcenter

import (
	"net/http"

	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/shared/response"
	"go-payrun/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("commandcenter.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("commandcenter.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("command center request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ListRuns(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var q ListRunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Warn("http list runs validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid command center filters", err.Error())
		return
	}

	page, err := h.service.ListRuns(c.Request.Context(), wc, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(int64(page.Total), page.Page, page.PageSize)
	meta.FilterKey = page.FilterKey
	response.Success(c, http.StatusOK, page.Rows, &meta)
}
