package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"productosapi/internal/codec"
	"productosapi/internal/model"
)

// ListProducts 获取部门商品列表
// GET /productos?dpto=
func (h *Handler) ListProducts(c *gin.Context) {
	dept := departmentFrom(c)

	items, err := h.service.List(c.Request.Context(), dept)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type createResponse struct {
	Mensaje        string `json:"mensaje"`
	FechaOrdenable string `json:"fechaOrdenable"`
	Advertencia    string `json:"advertencia,omitempty"`
}

// CreateProduct 新增商品
// POST /productos
func (h *Handler) CreateProduct(c *gin.Context) {
	dept := departmentFrom(c)

	var in codec.Input
	if err := c.ShouldBindBodyWith(&in, binding.JSON); err != nil {
		h.respondError(c, fmt.Errorf("%w: cuerpo JSON inválido", model.ErrInvalidInput))
		return
	}

	res, err := h.service.Create(c.Request.Context(), dept, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := createResponse{Mensaje: "Producto agregado"}
	if idx := dept.FieldByRole(model.RoleDateSortable); idx >= 0 {
		resp.FechaOrdenable = res.Product.Get(dept.Fields[idx].Name)
		if resp.FechaOrdenable == dept.Placeholder {
			resp.FechaOrdenable = ""
		}
	}
	if !res.DateNormalized() {
		resp.Advertencia = fmt.Sprintf("No se pudo interpretar la fecha %q; el producto se guardó sin fecha ordenable", res.Date.Input)
	}
	c.JSON(http.StatusOK, resp)
}

type updateStatusRequest struct {
	Producto string `json:"producto"`
	Codigo   string `json:"codigo"`
	Estado   string `json:"estado"`
}

type updateStatusResponse struct {
	Mensaje string `json:"mensaje"`
	Celda   string `json:"celda"`
}

// UpdateStatus 修改商品状态
// PATCH /productos/estado
func (h *Handler) UpdateStatus(c *gin.Context) {
	dept := departmentFrom(c)

	var req updateStatusRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.respondError(c, fmt.Errorf("%w: cuerpo JSON inválido", model.ErrInvalidInput))
		return
	}
	// 查找按原值精确匹配，只在判空时去掉空白
	key := req.Producto
	if strings.TrimSpace(key) == "" {
		// 扩展表也可以用 codigo 定位
		key = req.Codigo
	}

	target, err := h.service.SetStatus(c.Request.Context(), dept, key, req.Estado)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updateStatusResponse{
		Mensaje: "Estado actualizado",
		Celda:   target.Cell,
	})
}
