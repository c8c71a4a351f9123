package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"productosapi/internal/model"
)

const departmentContextKey = "productosapi.departamento"

type departmentProbe struct {
	Dpto string `json:"dpto"`
}

// DepartmentRouter 解析 dpto 并把部门结构放入 gin 上下文
//
// 查询参数优先；POST/PATCH 再看 JSON 请求体。请求体用 ShouldBindBodyWith 缓存，
// 后续 handler 可以再次绑定。未知部门直接 400，不会调用任何后端。
func (h *Handler) DepartmentRouter() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.Query("dpto"))
		if key == "" && hasBody(c.Request) {
			var probe departmentProbe
			if err := c.ShouldBindBodyWith(&probe, binding.JSON); err != nil {
				h.abortWithError(c, fmt.Errorf("%w: cuerpo JSON inválido", model.ErrInvalidInput))
				return
			}
			key = strings.TrimSpace(probe.Dpto)
		}

		dept, err := h.registry.Resolve(key)
		if err != nil {
			h.abortWithError(c, err)
			return
		}

		c.Set(departmentContextKey, dept)
		c.Next()
	}
}

func hasBody(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPatch && r.Method != http.MethodPut {
		return false
	}
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

// departmentFrom 读取中间件解析好的部门
func departmentFrom(c *gin.Context) *model.Schema {
	v, ok := c.Get(departmentContextKey)
	if !ok {
		return nil
	}
	dept, _ := v.(*model.Schema)
	return dept
}
