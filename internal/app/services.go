package app

import (
	"github.com/yungbote/avatar-backend/internal/catalog"
	"github.com/yungbote/avatar-backend/internal/compose"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
	"github.com/yungbote/avatar-backend/internal/registry"
	"github.com/yungbote/avatar-backend/internal/services"
)

func wireServices(log *logger.Logger, cat *catalog.Catalog, reg *registry.Registry, metrics *observability.Metrics) (services.AvatarService, error) {
	log.Info("Wiring services...")
	engine := compose.NewEngine(cat, log, metrics)
	return services.NewAvatarService(log, cat, reg, engine, nil)
}
