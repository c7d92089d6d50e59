package workflow_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"go-payrun/internal/shared/apperror"
	"go-payrun/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("populated", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(workflow.KeyUserID, "u-1")
		c.Set(workflow.KeyEmployeeID, "12")
		c.Set(workflow.KeyRole, "admin")
		c.Set(workflow.KeyAuthToken, "tok")

		wc, err := workflow.FromGin(c)

		assert.NoError(t, err)
		assert.Equal(t, "u-1", wc.OperatorID)
		assert.Equal(t, workflow.RoleAdmin, wc.Role)
		assert.True(t, wc.IsAdmin())
	})

	t.Run("missing token", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(workflow.KeyUserID, "u-1")

		_, err := workflow.FromGin(c)

		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	})
}
