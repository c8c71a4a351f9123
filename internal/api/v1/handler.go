package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"productosapi/internal/exporter"
	"productosapi/internal/model"
	"productosapi/internal/schema"
	"productosapi/internal/service/productos"
	"productosapi/internal/sheet"
	"productosapi/internal/store"
)

// MutationLister 流水查询（journal 关闭时为 nil）
type MutationLister interface {
	ListMutations(ctx context.Context, q store.MutationQuery) ([]model.Mutation, error)
}

// Handler 商品 API 处理器
type Handler struct {
	registry    *schema.Registry
	service     *productos.Service
	exporter    *exporter.Exporter
	journal     MutationLister
	backendKind sheet.Kind
	logger      *zap.Logger
	now         func() time.Time
}

// Option 处理器选项
type Option func(*Handler)

// WithMutationLister 启用 /productos/movimientos
func WithMutationLister(l MutationLister) Option {
	return func(h *Handler) { h.journal = l }
}

// WithBackendKind 在 /status 中显示后端类型
func WithBackendKind(kind sheet.Kind) Option {
	return func(h *Handler) { h.backendKind = kind }
}

// WithClock 注入时钟（导出文件名使用）
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler 创建处理器
func NewHandler(registry *schema.Registry, service *productos.Service, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		registry: registry,
		service:  service,
		exporter: exporter.NewExporter(),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes 注册路由；/productos 下的路由都先经过部门路由中间件
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	// 部门列表
	router.GET("/departamentos", h.ListDepartments)

	items := router.Group("/productos", h.DepartmentRouter())
	{
		items.GET("", h.ListProducts)
		items.POST("", h.CreateProduct)
		items.PATCH("/estado", h.UpdateStatus)

		items.GET("/exportar", h.ExportProducts)
		items.GET("/movimientos", h.ListMovements)
	}
}
