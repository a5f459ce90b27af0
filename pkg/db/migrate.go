package db

import (
	"cashback-ledger/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate returns an invoke that auto-migrates models when
// DATABASE.AUTO_MIGRATE is set.
func Migrate(models ...any) fx.Option {
	return fx.Invoke(func(db *gorm.DB, cfg *config.Config) error {
		return AutoMigrate(db, cfg, models...)
	})
}

func AutoMigrate(db *gorm.DB, cfg *config.Config, models ...any) error {
	if !cfg.Database.AutoMigrate || len(models) == 0 {
		return nil
	}
	if err := db.AutoMigrate(models...); err != nil {
		zap.L().Error("[DB] auto migration failed", zap.Error(err))
		return err
	}
	zap.L().Info("[DB] schema migrated", zap.Int("models", len(models)))
	return nil
}
