package app

import (
	"context"
	"fmt"

	"github.com/yungbote/avatar-backend/internal/catalog"
	"github.com/yungbote/avatar-backend/internal/config"
	"github.com/yungbote/avatar-backend/internal/platform/gcp"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

// LoadCatalog reads the part catalog from the configured source.
func LoadCatalog(ctx context.Context, log *logger.Logger, cfg config.CatalogConfig) (*catalog.Catalog, error) {
	log.Info("Loading part catalog...", "source", cfg.Source)
	switch cfg.Source {
	case config.SourceGCS:
		storageCfg, err := gcp.ResolveObjectStorageConfigFromEnv()
		if err != nil {
			return nil, err
		}
		client, err := gcp.NewStorageClient(ctx, storageCfg)
		if err != nil {
			return nil, fmt.Errorf("init storage client: %w", err)
		}
		// parts are read once at startup
		defer client.Close()
		log.Info("Object storage client ready", "mode", storageCfg.Mode, "bucket", cfg.Bucket)
		return catalog.Load(ctx, log, catalog.NewGCSSource(client, cfg.Bucket, cfg.Prefix, cfg.Pattern))
	default:
		return catalog.Load(ctx, log, catalog.NewFSSource(cfg.Dir, cfg.Pattern))
	}
}
