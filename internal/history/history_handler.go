package history

import (
	"net/http"
	"strconv"

	historyerrors "go-payrun/internal/history/errors"
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
	l := zap.L().Named("history.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("history.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("history request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) History(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	employeeID, err := strconv.ParseInt(c.Param("employeeId"), 10, 64)
	if err != nil {
		h.writeServiceError(c, historyerrors.ErrInvalidEmployee)
		return
	}

	var f Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	entries, err := h.service.History(c.Request.Context(), wc, employeeID, f)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries, nil)
}
