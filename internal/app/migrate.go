package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/shm-admin/backend/internal/config"
	"github.com/shm-admin/backend/internal/logger"
	"github.com/shm-admin/backend/internal/models"
)

// Migrate 建表并写入默认品牌配置
func Migrate(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	db, err := models.Open(models.DBOptions{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.ResolveDSN(),
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warnw("migrate_close_database_failed", "error", err)
		}
	}()

	if err := db.Probe(ctx); err != nil {
		return err
	}
	logger.Infow("migrate_done", "driver", cfg.Database.Driver)
	return nil
}
