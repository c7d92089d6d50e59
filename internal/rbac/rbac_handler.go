package rbac

import (
	"net/http"
	"sort"

	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/shared/response"
	"go-payrun/internal/workflow"

	"github.com/gin-gonic/gin"
)

type PermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Permissions returns what the caller may do, so clients can hide actions
// that would be rejected.
func (h *Handler) Permissions(c *gin.Context) {
	wc, err := workflow.FromGin(c)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	perms, err := h.service.Permissions(c.Request.Context(), wc.Role)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	sort.Strings(perms)

	response.Success(c, http.StatusOK, PermissionsResponse{Role: wc.Role, Permissions: perms}, nil)
}
