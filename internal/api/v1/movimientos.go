package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"productosapi/internal/model"
	"productosapi/internal/store"
)

type movementsResponse struct {
	Departamento string           `json:"departamento"`
	Items        []model.Mutation `json:"items"`
}

// ListMovements 查询部门写操作流水
// GET /productos/movimientos?dpto=&limit=
func (h *Handler) ListMovements(c *gin.Context) {
	dept := departmentFrom(c)

	if h.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro de movimientos deshabilitado"})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.respondError(c, fmt.Errorf("%w: limit %q", model.ErrInvalidInput, v))
			return
		}
		limit = n
	}

	items, err := h.journal.ListMutations(c.Request.Context(), store.MutationQuery{
		Department: dept.Key,
		Limit:      limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movementsResponse{
		Departamento: dept.Key,
		Items:        items,
	})
}
