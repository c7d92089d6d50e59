package catalog

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
	l := zap.L().Named("catalog.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("catalog request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) PaymentMethods(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.PaymentMethods(c.Request.Context(), wc)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Components(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Components(c.Request.Context(), wc)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
