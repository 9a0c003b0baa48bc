package app

import (
	"context"
	"fmt"

	"github.com/yungbote/avatar-backend/internal/config"
	"github.com/yungbote/avatar-backend/internal/data/db"
	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
	"github.com/yungbote/avatar-backend/internal/platform/redisdb"
	"github.com/yungbote/avatar-backend/internal/registry"
)

// wireRegistry returns the registry plus closers for any clients it opened.
// Closers are returned even on error so the caller can release them.
func wireRegistry(ctx context.Context, log *logger.Logger, cfg config.RegistryConfig, bounds domain.Bounds, metrics *observability.Metrics) (*registry.Registry, []func() error, error) {
	log.Info("Wiring key registry...", "codec", cfg.Codec, "store", cfg.Store)

	if cfg.Codec == config.CodecCompact {
		codec, err := registry.NewCompactCodec(bounds)
		if err != nil {
			return nil, nil, fmt.Errorf("init compact codec: %w", err)
		}
		reg, err := registry.New(codec, nil, log, metrics)
		return reg, nil, err
	}

	codec, err := registry.NewHashCodec(cfg.KeyLength)
	if err != nil {
		return nil, nil, fmt.Errorf("init hash codec: %w", err)
	}
	store, closers, err := wireStore(ctx, log, cfg)
	if err != nil {
		return nil, closers, err
	}
	reg, err := registry.New(codec, store, log, metrics)
	return reg, closers, err
}

func wireStore(ctx context.Context, log *logger.Logger, cfg config.RegistryConfig) (registry.Store, []func() error, error) {
	var (
		store   registry.Store
		closers []func() error
	)
	switch cfg.Store {
	case config.StoreRedis:
		rdb, err := redisdb.NewClient(ctx, log, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, rdb.Close)
		store = registry.NewRedisStore(rdb, cfg.Redis.Prefix, cfg.TTL)
	case config.StoreSQL:
		gdb, err := db.Open(log, cfg.SQL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() error { return db.Close(gdb) })
		sqlStore := registry.NewSQLStore(gdb)
		if err := sqlStore.Migrate(ctx); err != nil {
			return nil, closers, fmt.Errorf("migrate avatar keys: %w", err)
		}
		store = sqlStore
	default:
		if cfg.TTL > 0 {
			return registry.NewExpiringStore(cfg.TTL), nil, nil
		}
		return registry.NewMemoryStore(), nil, nil
	}

	if cfg.CacheTTL > 0 {
		store = registry.NewCachedStore(store, cfg.CacheTTL)
	}
	return store, closers, nil
}
