package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"productosapi/internal/logging"
	"productosapi/internal/model"
	"productosapi/internal/schema"
	"productosapi/internal/sheet"
)

// statusFor 错误 -> HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorBody 面向调用方的错误信息；后端错误只返回“Error interno”
func errorBody(err error) gin.H {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return gin.H{"error": "Faltan datos", "campo": ve.Field, "detalle": ve.Message}
	case errors.Is(err, schema.ErrMissingDepartment):
		return gin.H{"error": "Falta el departamento (dpto)"}
	case errors.Is(err, schema.ErrUnknownDepartment):
		return gin.H{"error": "Departamento desconocido"}
	case errors.Is(err, model.ErrInvalidInput):
		return gin.H{"error": "Solicitud inválida"}
	case errors.Is(err, model.ErrNotFound):
		return gin.H{"error": "Producto no encontrado"}
	default:
		return gin.H{"error": "Error interno"}
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	log := logging.FromContext(c.Request.Context(), h.logger).With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{zap.Error(err)}
		var be *sheet.BackendError
		if errors.As(err, &be) {
			fields = append(fields,
				zap.String("op", string(be.Op)),
				zap.String("table_id", be.TableID),
				zap.String("range", be.Range),
			)
		}
		log.Error("error interno", fields...)
	} else {
		log.Debug("solicitud rechazada", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, errorBody(err))
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	h.respondError(c, err)
	c.Abort()
}
