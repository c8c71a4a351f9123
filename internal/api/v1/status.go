package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"productosapi/internal/sheet"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	OK            bool       `json:"ok"`
	Backend       sheet.Kind `json:"backend"`       // google / xlsx / memory
	Departamentos []string   `json:"departamentos"` // 已注册部门
	Default       string     `json:"default,omitempty"`
	Journal       bool       `json:"journal"` // 是否记录流水
}

// GetStatus 获取系统状态
// GET /status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		OK:            true,
		Backend:       h.backendKind,
		Departamentos: h.registry.Keys(),
		Default:       h.registry.DefaultKey(),
		Journal:       h.journal != nil,
	})
}
