package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"productosapi/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportProducts 导出部门商品为 xlsx
// GET /productos/exportar?dpto=
func (h *Handler) ExportProducts(c *gin.Context) {
	dept := departmentFrom(c)

	items, err := h.service.List(c.Request.Context(), dept)
	if err != nil {
		h.respondError(c, err)
		return
	}

	file, err := h.exporter.Export(dept, items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", exporter.ContentDisposition(dept.Key, h.now()))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
