package disbursement

import (
	"net/http"
	"strconv"
	"strings"

	"go-payrun/internal/draft"
	"go-payrun/internal/middleware"
	"go-payrun/internal/period"
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
	l := zap.L().Named("disbursement.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("disbursement.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("disbursement request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func payrollIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidField("id")
	}
	return id, nil
}

func (h *Handler) Confirm(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	key, err := draft.KeyFromPath(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	res, err := h.service.Confirm(c.Request.Context(), wc, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Set(middleware.KeyIdempotencyResult, gin.H{"run_id": res.RunID, "payroll_id": res.PayrollID})

	if res.Redirect.HTML != "" && strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(res.Redirect.HTML))
		return
	}
	response.Success(c, http.StatusOK, ToRedirectResponse(res), nil)
}

func (h *Handler) Void(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	id, err := payrollIDParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.Void(c.Request.Context(), wc, id, req.Confirmed); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, VoidResponse{PayrollID: id, Status: string(period.StatusVoided)}, nil)
}

func (h *Handler) EmailPayslip(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	id, err := payrollIDParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.EmailPayslip(c.Request.Context(), wc, id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, EmailResponse{PayrollID: id, Queued: true}, nil)
}
