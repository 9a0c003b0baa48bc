package app

import (
	"github.com/yungbote/avatar-backend/internal/config"
	"github.com/yungbote/avatar-backend/internal/http"
	httpH "github.com/yungbote/avatar-backend/internal/http/handlers"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
	"github.com/yungbote/avatar-backend/internal/services"
)

type Handlers struct {
	Info   *httpH.InfoHandler
	Avatar *httpH.AvatarHandler
	Health *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg config.Config, codec string, avatars services.AvatarService) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Info:   httpH.NewInfoHandler(cfg.Telemetry.ServiceName, cfg.Telemetry.Version, codec),
		Avatar: httpH.NewAvatarHandler(avatars),
		Health: httpH.NewHealthHandler(),
	}
}

func wireServer(log *logger.Logger, cfg config.Config, codec string, avatars services.AvatarService, metrics *observability.Metrics) *http.Server {
	handlers := wireHandlers(log, cfg, codec, avatars)
	return http.NewServer(
		http.ServerConfig{
			Addr:              cfg.HTTP.Addr,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
		http.RouterConfig{
			Log:             log,
			ServiceName:     cfg.Telemetry.ServiceName,
			AllowOrigins:    cfg.HTTP.AllowOrigins,
			MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
			RequestTimeout:  cfg.HTTP.RequestTimeout,
			Metrics:         metrics,
			MetricsPath:     cfg.Telemetry.Metrics.Path,
			Tracing:         cfg.Telemetry.Tracing.Enabled,
			InfoHandler:     handlers.Info,
			AvatarHandler:   handlers.Avatar,
			HealthHandler:   handlers.Health,
		},
	)
}
