package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yungbote/avatar-backend/internal/catalog"
	"github.com/yungbote/avatar-backend/internal/config"
	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/http"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
	"github.com/yungbote/avatar-backend/internal/registry"
	"github.com/yungbote/avatar-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	Cfg      config.Config
	Catalog  *catalog.Catalog
	Registry *registry.Registry
	Metrics  *observability.Metrics
	Avatars  services.AvatarService
	Server   *http.Server

	otelShutdown func(context.Context) error
	closers      []func() error
}

// New builds the service from cfg. The catalog is loaded eagerly; a
// missing or empty category aborts startup.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := newWithLogger(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func newWithLogger(ctx context.Context, log *logger.Logger, cfg config.Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Env, cfg.Telemetry)
	if cfg.Telemetry.Metrics.Enabled {
		a.Metrics = observability.NewMetrics()
	}

	cat, err := LoadCatalog(ctx, log, cfg.Catalog)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = cat
	for _, c := range domain.Categories {
		a.Metrics.SetCatalogParts(string(c), cat.Count(c))
	}

	reg, closers, err := wireRegistry(ctx, log, cfg.Registry, cat, a.Metrics)
	a.closers = append(a.closers, closers...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Registry = reg

	avatars, err := wireServices(log, cat, reg, a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Avatars = avatars
	a.Server = wireServer(log, cfg, reg.Codec(), avatars, a.Metrics)

	log.Info("Avatar service ready",
		"catalog", cat.Source(),
		"codec", reg.Codec(),
		"store", cfg.Registry.Store,
		"addr", cfg.HTTP.Addr,
	)
	return a, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	ln, err := net.Listen("tcp", a.Cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Cfg.HTTP.Addr, err)
	}
	return a.Serve(ctx, ln)
}

func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Serve(ln) }()
	a.Log.Info("HTTP server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := a.Cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	a.Log.Info("Shutting down HTTP server", "timeout", timeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Registry != nil {
		if err := a.Registry.Close(); err != nil {
			a.Log.Warn("Registry close failed", "error", err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("Client close failed", "error", err)
		}
	}
	a.closers = nil
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
		cancel()
		a.otelShutdown = nil
	}
	a.Log.Sync()
}
