package service

import (
	"context"
	"fmt"

	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/models"
	"github.com/shm-admin/backend/internal/repository"
)

// SettingService 通用设置读写，直接访问关系库
type SettingService struct {
	db       ConnectivityProbe
	repo     repository.SettingRepository
	branding *BrandingService
}

// NewSettingService 创建设置服务
// branding 非空时，写入 branding 键会同时失效品牌缓存
func NewSettingService(db ConnectivityProbe, repo repository.SettingRepository, branding *BrandingService) *SettingService {
	return &SettingService{db: db, repo: repo, branding: branding}
}

// GetByKey 获取设置
// 关系库未连接时视为未找到
func (s *SettingService) GetByKey(ctx context.Context, key string) (models.Document, bool, error) {
	if s.db == nil || !s.db.Connected() {
		return models.Document{}, false, nil
	}
	setting, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return models.Document{}, false, fmt.Errorf("get setting %q: %w", key, err)
	}
	if setting == nil {
		return models.Document{}, false, nil
	}
	return setting.Value, true, nil
}

// Update 设置值
func (s *SettingService) Update(ctx context.Context, key string, value models.Document) error {
	if s.db == nil || !s.db.Connected() {
		return ErrStoreUnavailable
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return fmt.Errorf("save setting %q: %w", key, err)
	}
	if key == constants.SettingKeyBranding && s.branding != nil {
		s.branding.Invalidate(ctx)
	}
	return nil
}
