package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"productosapi/internal/model"
)

type departmentsResponse struct {
	Default string          `json:"default,omitempty"`
	Items   []*model.Schema `json:"items"`
}

// ListDepartments 列出已注册部门，不访问后端
// GET /departamentos
func (h *Handler) ListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, departmentsResponse{
		Default: h.registry.DefaultKey(),
		Items:   h.registry.All(),
	})
}
