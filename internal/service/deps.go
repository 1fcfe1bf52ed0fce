package service

import (
	"context"
	"strings"
	"time"

	"github.com/shm-admin/backend/internal/constants"
)

// ConnectivityProbe 后端连通性标记
type ConnectivityProbe interface {
	Connected() bool
}

// CacheStore 服务所需的缓存能力，由 cache.Store 实现
type CacheStore interface {
	Enabled() bool
	Connected() bool
	Key(parts ...string) string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
	DelByPrefix(ctx context.Context, prefix string) (int64, error)
}

// InvalidationQueue 缓存失效任务投递，由 queue.Client 实现
type InvalidationQueue interface {
	Enabled() bool
	EnqueueCacheInvalidate(ctx context.Context, key string) error
}

// MetricsRecorder 服务层指标，由 metrics.Metrics 实现
type MetricsRecorder interface {
	ObserveCacheLookup(area, result string)
	ObserveInvalidation(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveCacheLookup(string, string) {}
func (noopMetrics) ObserveInvalidation(string)        {}

func metricsOrNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// disabledCache 未配置 Redis 时使用
type disabledCache struct{}

func (disabledCache) Enabled() bool   { return false }
func (disabledCache) Connected() bool { return false }
func (disabledCache) Key(parts ...string) string {
	return strings.Join(append([]string{constants.DefaultRedisPrefix}, parts...), ":")
}
func (disabledCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, ErrCacheUnavailable
}
func (disabledCache) SetEX(context.Context, string, []byte, time.Duration) error {
	return ErrCacheUnavailable
}
func (disabledCache) Del(context.Context, ...string) (int64, error) {
	return 0, ErrCacheUnavailable
}
func (disabledCache) DelByPrefix(context.Context, string) (int64, error) {
	return 0, ErrCacheUnavailable
}

func cacheOrDisabled(c CacheStore) CacheStore {
	if c == nil {
		return disabledCache{}
	}
	return c
}
