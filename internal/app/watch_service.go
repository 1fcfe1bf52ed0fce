package app

import (
	"context"

	"github.com/shm-admin/backend/internal/cache"
)

// CacheWatchService 周期探测 Redis 连通性
type CacheWatchService struct {
	store *cache.Store
}

// NewCacheWatchService 创建探测服务
func NewCacheWatchService(store *cache.Store) *CacheWatchService {
	return &CacheWatchService{store: store}
}

// Name 服务名称
func (s *CacheWatchService) Name() string {
	return "cache-watch"
}

// Start 阻塞直到 ctx 结束；未配置 Redis 或探测间隔为 0 时只等待
func (s *CacheWatchService) Start(ctx context.Context) error {
	if s != nil && s.store != nil {
		s.store.Watch(ctx)
	}
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *CacheWatchService) Stop(ctx context.Context) error {
	return nil
}
