package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/logger"
	"github.com/shm-admin/backend/internal/models"
	"github.com/shm-admin/backend/internal/repository"

	"golang.org/x/sync/singleflight"
)

const brandingLoadTimeout = 5 * time.Second

// BrandingOptions 品牌服务可选依赖
type BrandingOptions struct {
	TTL     time.Duration
	Queue   InvalidationQueue
	Metrics MetricsRecorder
}

// BrandingService 品牌配置读写：缓存 -> 关系库 -> 默认值
type BrandingService struct {
	db      ConnectivityProbe
	repo    repository.SettingRepository
	cache   CacheStore
	queue   InvalidationQueue
	metrics MetricsRecorder
	ttl     time.Duration
	group   singleflight.Group
}

// NewBrandingService 创建品牌服务
func NewBrandingService(db ConnectivityProbe, repo repository.SettingRepository, cache CacheStore, opts BrandingOptions) *BrandingService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = constants.BrandingCacheTTLSeconds * time.Second
	}
	return &BrandingService{
		db:      db,
		repo:    repo,
		cache:   cacheOrDisabled(cache),
		queue:   opts.Queue,
		metrics: metricsOrNoop(opts.Metrics),
		ttl:     ttl,
	}
}

// CacheKey 品牌配置缓存 key
func (s *BrandingService) CacheKey() string {
	return s.cache.Key(constants.CacheKeyBranding)
}

// Get 读取品牌配置，任何后端故障都回退到下一层，最终返回默认值
func (s *BrandingService) Get(ctx context.Context) models.Document {
	if doc, ok := s.readCache(ctx); ok {
		return doc
	}

	key := s.CacheKey()
	result, _, _ := s.group.Do(key, func() (interface{}, error) {
		// 合并后的读取不随首个调用方取消
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), brandingLoadTimeout)
		defer cancel()
		return s.loadFromStore(loadCtx), nil
	})
	doc, ok := result.(models.Document)
	if !ok {
		return models.DefaultBrandingDocument()
	}
	return doc
}

// Set 以默认值为底合并调用方字段后保存，不读取已保存的旧值
func (s *BrandingService) Set(ctx context.Context, partial models.Document) (models.Document, error) {
	merged, err := MergeBranding(partial)
	if err != nil {
		return models.Document{}, err
	}
	if err := s.save(ctx, merged); err != nil {
		return models.Document{}, fmt.Errorf("save branding: %w", err)
	}
	return merged, nil
}

// Reset 恢复默认品牌配置
func (s *BrandingService) Reset(ctx context.Context) (models.Document, error) {
	defaults := models.DefaultBrandingDocument()
	if err := s.save(ctx, defaults); err != nil {
		return models.Document{}, fmt.Errorf("reset branding: %w", err)
	}
	return defaults, nil
}

// Invalidate 删除缓存副本，无法立即删除时投递异步失效任务
func (s *BrandingService) Invalidate(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	key := s.CacheKey()
	if s.cache.Connected() {
		_, err := s.cache.Del(ctx, key)
		if err == nil {
			s.metrics.ObserveInvalidation(constants.InvalidationDeleted)
			return
		}
		logger.Warnw("branding_cache_invalidate_failed", "key", key, "error", err)
	}

	if s.queue == nil || !s.queue.Enabled() {
		s.metrics.ObserveInvalidation(constants.InvalidationSkipped)
		logger.Warnw("branding_cache_invalidate_skipped", "key", key, "reason", "queue_disabled")
		return
	}
	if err := s.queue.EnqueueCacheInvalidate(ctx, key); err != nil {
		s.metrics.ObserveInvalidation(constants.InvalidationFailed)
		logger.Errorw("branding_cache_invalidate_enqueue_failed", "key", key, "error", err)
		return
	}
	s.metrics.ObserveInvalidation(constants.InvalidationEnqueued)
	logger.Infow("branding_cache_invalidate_enqueued", "key", key)
}

func (s *BrandingService) save(ctx context.Context, value models.Document) error {
	if s.db == nil || !s.db.Connected() {
		return ErrStoreUnavailable
	}
	if err := s.repo.Upsert(ctx, constants.SettingKeyBranding, value); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *BrandingService) readCache(ctx context.Context) (models.Document, bool) {
	if !s.cache.Connected() {
		return models.Document{}, false
	}
	key := s.CacheKey()
	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.ObserveCacheLookup(constants.CacheAreaBranding, constants.CacheResultError)
		logger.Warnw("branding_cache_get_failed", "key", key, "error", err)
		return models.Document{}, false
	}
	if !hit {
		s.metrics.ObserveCacheLookup(constants.CacheAreaBranding, constants.CacheResultMiss)
		return models.Document{}, false
	}
	doc, err := models.ParseDocument(raw)
	if err != nil {
		s.metrics.ObserveCacheLookup(constants.CacheAreaBranding, constants.CacheResultError)
		logger.Warnw("branding_cache_decode_failed", "key", key, "error", err)
		return models.Document{}, false
	}
	s.metrics.ObserveCacheLookup(constants.CacheAreaBranding, constants.CacheResultHit)
	return doc, true
}

func (s *BrandingService) loadFromStore(ctx context.Context) models.Document {
	if s.db == nil || !s.db.Connected() {
		return models.DefaultBrandingDocument()
	}
	setting, err := s.repo.GetByKey(ctx, constants.SettingKeyBranding)
	if err != nil {
		logger.Warnw("branding_store_get_failed", "error", err)
		return models.DefaultBrandingDocument()
	}
	if setting == nil {
		return models.DefaultBrandingDocument()
	}

	if s.cache.Connected() {
		key := s.CacheKey()
		if err := s.cache.SetEX(ctx, key, setting.Value.Bytes(), s.ttl); err != nil {
			logger.Warnw("branding_cache_set_failed", "key", key, "error", err)
		}
	}
	return setting.Value
}

// MergeBranding 默认品牌配置叠加调用方的顶层字段，额外字段原样保留
// 空文档视为空对象
func MergeBranding(partial models.Document) (models.Document, error) {
	if partial.IsNull() {
		return models.DefaultBrandingDocument(), nil
	}
	overlay, err := partial.Object()
	if err != nil {
		return models.Document{}, ErrInvalidBranding
	}
	fields, err := models.DefaultBrandingDocument().Object()
	if err != nil {
		return models.Document{}, err
	}
	for k, v := range overlay {
		fields[k] = append(json.RawMessage(nil), v...)
	}
	return models.ObjectDocument(fields)
}
