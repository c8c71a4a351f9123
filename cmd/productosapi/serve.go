package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"productosapi/internal/config"
	"productosapi/internal/logging"
	"productosapi/internal/server"
)

type serveOptions struct {
	port    int
	devMode bool
	dataDir string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inicia el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "puerto (config.toml y PORT tienen prioridad)")
	cmd.Flags().BoolVar(&opts.devMode, "dev", false, "modo desarrollo")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directorio de datos (sobrescribe config.toml)")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo(configPath)
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	// 命令行参数覆盖配置
	if opts.port > 0 && !info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.devMode {
		cfg.Server.DevMode = true
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, DevMode: cfg.Server.DevMode})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if info.Found {
		logger.Info("configuración cargada", zap.String("path", info.Path))
	} else {
		logger.Info("config.toml no encontrado, se usan valores por defecto", zap.String("path", info.Path))
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("servidor escuchando", zap.Int("port", cfg.Server.Port))
		errCh <- srv.Run(addr)
	}()

	select {
	case err := <-errCh:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	logger.Info("cerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
