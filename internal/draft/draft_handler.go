package draft

import (
	"net/http"
	"strconv"

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
	l := zap.L().Named("draft.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("draft.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("draft request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.writeServiceError(c, apperror.MapValidationError(err))
}

// KeyFromPath reads the :employeeId and :period route params.
func KeyFromPath(c *gin.Context) (period.Key, error) {
	return period.ParseKey(c.Param("employeeId"), c.Param("period"))
}

func (h *Handler) Start(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req StartDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	year, month, err := period.ParsePeriod(req.Period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	d, err := h.service.Start(c.Request.Context(), wc, period.Key{EmployeeID: req.EmployeeID, Year: year, Month: month})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(d), nil)
}

// Resume serves a reload. Without both query params there is nothing to
// resume and the client is sent back to the Command Center.
func (h *Handler) Resume(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var q ResumeDraftQuery
	_ = c.ShouldBindQuery(&q)

	var key *period.Key
	if q.EmployeeID != "" && q.Period != "" {
		if k, err := period.ParseKey(q.EmployeeID, q.Period); err == nil {
			key = &k
		}
	}

	d, err := h.service.Resume(c.Request.Context(), wc, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(d), nil)
}

func (h *Handler) Update(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	key, err := KeyFromPath(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	d, err := h.service.Update(c.Request.Context(), wc, key, req.Patch())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(d), nil)
}

func (h *Handler) AddComponent(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	key, err := KeyFromPath(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req AddComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	d, err := h.service.AddComponent(c.Request.Context(), wc, key, ComponentInput{
		ComponentID: req.ComponentID,
		Amount:      req.Amount.Decimal,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToResponse(d), nil)
}

func (h *Handler) RemoveComponent(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	key, err := KeyFromPath(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	componentID, err := strconv.ParseInt(c.Param("componentId"), 10, 64)
	if err != nil || componentID <= 0 {
		h.writeServiceError(c, apperror.InvalidField("componentId"))
		return
	}

	d, err := h.service.RemoveComponent(c.Request.Context(), wc, key, componentID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(d), nil)
}

func (h *Handler) Discard(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	key, err := KeyFromPath(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.Discard(c.Request.Context(), wc, key); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
