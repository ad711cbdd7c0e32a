package app

import (
	"fmt"

	"github.com/yungbote/recipebook-backend/internal/data/db"
	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

// wireRepos opens the configured backend. The database service is nil for the
// in-memory store.
func wireRepos(log *logger.Logger, cfg Config, metrics *observability.Metrics) (repos.Set, *db.Service, error) {
	log.Info("Wiring repos...", "driver", cfg.StorageDriver)

	if cfg.StorageDriver == StorageMemory {
		return repos.NewMemorySet(log), nil, nil
	}

	dbs, err := db.NewService(log, cfg.Database)
	if err != nil {
		return repos.Set{}, nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		return repos.Set{}, nil, fmt.Errorf("database automigrate: %w", err)
	}
	if sqlDB, err := dbs.DB().DB(); err == nil {
		if err := metrics.RegisterDBStats(sqlDB, cfg.StorageDriver); err != nil {
			log.Warn("register db stats failed (continuing)", "error", err)
		}
	}
	return repos.NewGormSet(dbs.DB(), log), dbs, nil
}
