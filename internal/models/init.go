package models

import (
	"context"
	"errors"

	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/logger"

	"gorm.io/gorm"
)

// SeedBranding 品牌配置行不存在时写入默认值，已存在则保持不变
func SeedBranding(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return ErrDatabaseNotInitialized
	}
	var existing AdminSetting
	err := db.WithContext(ctx).Where("setting_key = ?", constants.SettingKeyBranding).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	setting := AdminSetting{
		Key:   constants.SettingKeyBranding,
		Value: DefaultBrandingDocument(),
	}
	if err := db.WithContext(ctx).Create(&setting).Error; err != nil {
		return err
	}
	logger.Infow("default_branding_seeded", "setting_key", constants.SettingKeyBranding)
	return nil
}
