package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "productosapi/internal/api/v1"
	"productosapi/internal/config"
	"productosapi/internal/schema"
	"productosapi/internal/service/productos"
	"productosapi/internal/sheet"
	"productosapi/internal/store"
)

// Server HTTP服务器
type Server struct {
	router   *gin.Engine
	http     *http.Server
	store    *store.Store
	registry *schema.Registry
	backend  sheet.Backend
	logger   *zap.Logger
}

// NewServer 创建服务器：部门注册表 -> 表格后端 -> 流水库 -> 路由
func NewServer(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	registry, err := config.BuildRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("构建部门注册表失败: %w", err)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	backend, err := NewBackend(ctx, cfg, dataDir, registry)
	if err != nil {
		return nil, err
	}

	s := &Server{
		registry: registry,
		backend:  backend,
		logger:   logger,
	}

	svcOpts := []productos.Option{}
	handlerOpts := []v1.Option{v1.WithBackendKind(cfg.Backend.Kind)}
	if cfg.Data.Journal {
		// 初始化 SQLite 流水库
		st, err := store.New(filepath.Join(dataDir, "productos.db"))
		if err != nil {
			return nil, fmt.Errorf("初始化流水库失败: %w", err)
		}
		s.store = st
		svcOpts = append(svcOpts, productos.WithJournal(st))
		handlerOpts = append(handlerOpts, v1.WithMutationLister(st))
	}

	svc := productos.NewService(backend, logger, svcOpts...)
	handler := v1.NewHandler(registry, svc, logger, handlerOpts...)

	s.router = newRouter(logger, handler)
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("servidor configurado",
		zap.String("backend", string(cfg.Backend.Kind)),
		zap.Strings("departamentos", registry.Keys()),
		zap.Bool("journal", s.store != nil),
	)
	return s, nil
}

func newRouter(logger *zap.Logger, handler *v1.Handler) *gin.Engine {
	r := gin.New()
	r.Use(recovery(logger), cors(), requestID(), accessLog(logger))
	handler.RegisterRoutes(r.Group(""))
	return r
}

// NewBackend 按配置创建表格后端
//
// xlsx 后端会为每个部门确保工作簿和表头存在；memory 后端只写表头。
func NewBackend(ctx context.Context, cfg *config.AppConfig, dataDir string, registry *schema.Registry) (sheet.Backend, error) {
	switch cfg.Backend.Kind {
	case sheet.KindGoogle:
		return sheet.NewGoogleSheets(ctx, cfg.Resolve(cfg.Backend.CredentialsFile))
	case sheet.KindWorkbook:
		wb, err := sheet.NewWorkbook(filepath.Join(dataDir, "tablas"))
		if err != nil {
			return nil, err
		}
		for _, dept := range registry.All() {
			if err := wb.EnsureTable(dept.TableID, dept.Sheet, dept.FieldNames()); err != nil {
				return nil, err
			}
		}
		return wb, nil
	case sheet.KindMemory:
		mem := sheet.NewMemory()
		for _, dept := range registry.All() {
			if len(mem.Rows(dept.TableID, dept.Sheet)) == 0 {
				mem.Seed(dept.TableID, dept.Sheet, [][]string{dept.FieldNames()})
			}
		}
		return mem, nil
	default:
		return nil, fmt.Errorf("backend desconocido: %q", cfg.Backend.Kind)
	}
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry 部门注册表
func (s *Server) Registry() *schema.Registry {
	return s.registry
}

// Run 启动服务器，阻塞直到 Shutdown
func (s *Server) Run(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭：停止接收请求并关闭流水库
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
