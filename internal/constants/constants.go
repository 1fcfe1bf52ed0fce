package constants

// 设置键常量
const (
	SettingKeyBranding = "branding"
)

// 缓存键常量（均位于 redis.prefix 之下）
const (
	CacheKeyBranding        = "branding"
	CacheNamespaceFacade    = "cache"
	DefaultRedisPrefix      = "shm-admin"
	DefaultCacheTTLSeconds  = 300
	BrandingCacheTTLSeconds = 3600
)

// 队列与任务常量
const (
	QueueDefault        = "default"
	TaskCacheInvalidate = "cache:invalidate"
)

// 缓存命中统计维度
const (
	CacheAreaBranding = "branding"
	CacheAreaFacade   = "facade"
	CacheResultHit    = "hit"
	CacheResultMiss   = "miss"
	CacheResultError  = "error"
)

// 品牌缓存失效结果
const (
	InvalidationDeleted  = "deleted"
	InvalidationEnqueued = "enqueued"
	InvalidationSkipped  = "skipped"
	InvalidationFailed   = "failed"
)

// 连通性指标维度
const (
	BackendMySQL = "mysql"
	BackendRedis = "redis"
)
