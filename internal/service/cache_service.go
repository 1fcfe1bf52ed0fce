package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/logger"
	"github.com/shm-admin/backend/internal/models"
)

// MaxTTLSeconds 可换算为 time.Duration 的最大 TTL 秒数
const MaxTTLSeconds = math.MaxInt64 / int64(time.Second)

// CacheSetInput 缓存写入参数
// TTLSeconds 为 nil 时使用默认 TTL
type CacheSetInput struct {
	Key        string
	Data       models.Document
	TTLSeconds *int
}

// CacheService 通用缓存读写，key 位于 <prefix>:cache: 之下
type CacheService struct {
	cache      CacheStore
	defaultTTL time.Duration
	metrics    MetricsRecorder
}

// NewCacheService 创建缓存服务
func NewCacheService(cache CacheStore, defaultTTL time.Duration, metrics MetricsRecorder) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = constants.DefaultCacheTTLSeconds * time.Second
	}
	return &CacheService{
		cache:      cacheOrDisabled(cache),
		defaultTTL: defaultTTL,
		metrics:    metricsOrNoop(metrics),
	}
}

// FacadeKey 将调用方 key 映射到缓存命名空间
func (s *CacheService) FacadeKey(key string) string {
	return s.cache.Key(constants.CacheNamespaceFacade, key)
}

func (s *CacheService) facadePrefix() string {
	return s.cache.Key(constants.CacheNamespaceFacade) + ":"
}

// Get 读取缓存，未连接/未命中/出错/无法解析时均返回未命中
func (s *CacheService) Get(ctx context.Context, key string) (models.Document, bool) {
	if !s.cache.Connected() {
		return models.Document{}, false
	}
	fullKey := s.FacadeKey(key)
	raw, hit, err := s.cache.Get(ctx, fullKey)
	if err != nil {
		s.metrics.ObserveCacheLookup(constants.CacheAreaFacade, constants.CacheResultError)
		logger.Warnw("cache_get_failed", "key", fullKey, "error", err)
		return models.Document{}, false
	}
	if !hit {
		s.metrics.ObserveCacheLookup(constants.CacheAreaFacade, constants.CacheResultMiss)
		return models.Document{}, false
	}
	doc, err := models.ParseDocument(raw)
	if err != nil {
		s.metrics.ObserveCacheLookup(constants.CacheAreaFacade, constants.CacheResultError)
		logger.Warnw("cache_decode_failed", "key", fullKey, "error", err)
		return models.Document{}, false
	}
	s.metrics.ObserveCacheLookup(constants.CacheAreaFacade, constants.CacheResultHit)
	return doc, true
}

// Set 写入缓存
func (s *CacheService) Set(ctx context.Context, input CacheSetInput) error {
	ttl := s.defaultTTL
	if input.TTLSeconds != nil {
		if *input.TTLSeconds <= 0 || int64(*input.TTLSeconds) > MaxTTLSeconds {
			return ErrInvalidTTL
		}
		ttl = time.Duration(*input.TTLSeconds) * time.Second
	}
	if !s.cache.Connected() {
		return ErrCacheUnavailable
	}
	fullKey := s.FacadeKey(input.Key)
	if err := s.cache.SetEX(ctx, fullKey, input.Data.Bytes(), ttl); err != nil {
		return fmt.Errorf("set cache %q: %w", fullKey, err)
	}
	return nil
}

// Delete 删除缓存，未连接时视为成功
func (s *CacheService) Delete(ctx context.Context, key string) error {
	if !s.cache.Connected() {
		return nil
	}
	fullKey := s.FacadeKey(key)
	if _, err := s.cache.Del(ctx, fullKey); err != nil {
		return fmt.Errorf("delete cache %q: %w", fullKey, err)
	}
	return nil
}

// Clear 删除命名空间下的全部 key，返回删除数量
func (s *CacheService) Clear(ctx context.Context) (int64, error) {
	if !s.cache.Connected() {
		return 0, nil
	}
	deleted, err := s.cache.DelByPrefix(ctx, s.facadePrefix())
	if err != nil {
		return deleted, fmt.Errorf("clear cache: %w", err)
	}
	logger.Infow("cache_cleared", "deleted", deleted)
	return deleted, nil
}
