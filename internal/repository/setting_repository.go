package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shm-admin/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoDatabase 仓库未绑定数据库连接
var ErrNoDatabase = errors.New("repository has no database")

// SettingRepository 设置数据访问接口
type SettingRepository interface {
	GetByKey(ctx context.Context, key string) (*models.AdminSetting, error)
	Upsert(ctx context.Context, key string, value models.Document) error
}

// GormSettingRepository GORM 实现
type GormSettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository 创建设置仓库
func NewSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// GetByKey 获取设置，不存在时返回 nil
func (r *GormSettingRepository) GetByKey(ctx context.Context, key string) (*models.AdminSetting, error) {
	if r == nil || r.db == nil {
		return nil, ErrNoDatabase
	}
	var setting models.AdminSetting
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert 按 setting_key 插入或覆盖值
// mysql 生成 ON DUPLICATE KEY UPDATE，postgres/sqlite 生成 ON CONFLICT DO UPDATE
func (r *GormSettingRepository) Upsert(ctx context.Context, key string, value models.Document) error {
	if r == nil || r.db == nil {
		return ErrNoDatabase
	}
	now := time.Now()
	setting := models.AdminSetting{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&setting).Error
}
