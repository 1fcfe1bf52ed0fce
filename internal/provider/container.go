package provider

import (
	"context"
	"time"

	"github.com/shm-admin/backend/internal/cache"
	"github.com/shm-admin/backend/internal/config"
	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/logger"
	"github.com/shm-admin/backend/internal/metrics"
	"github.com/shm-admin/backend/internal/models"
	"github.com/shm-admin/backend/internal/queue"
	"github.com/shm-admin/backend/internal/repository"
	"github.com/shm-admin/backend/internal/service"
)

const startupProbeTimeout = 15 * time.Second

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *models.Database
	Cache       *cache.Store
	QueueClient *queue.Client
	Metrics     *metrics.Metrics

	// Repositories
	SettingRepo repository.SettingRepository

	// Services
	BrandingService *service.BrandingService
	SettingService  *service.SettingService
	CacheService    *service.CacheService
	HealthService   *service.HealthService
}

// NewContainer 初始化容器
// 关系库与 Redis 启动失败时仅记录日志，服务以降级模式运行
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	c := &Container{
		Config:  cfg,
		Metrics: metrics.New(),
	}

	probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()

	c.DB = openDatabase(probeCtx, &cfg.Database)

	c.Cache = cache.NewStore(&cfg.Redis)
	if c.Cache.Enabled() {
		if err := c.Cache.Connect(probeCtx); err != nil {
			logger.Warnw("provider_init_redis_failed", "error", err)
		} else {
			logger.Infow("provider_redis_connected")
		}
	}

	qc, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}
	c.QueueClient = qc

	c.initRepositories()
	c.initServices()
	c.initMetrics()
	return c
}

// NewContainerWith 使用已建立的依赖组装容器，主要用于测试
func NewContainerWith(cfg *config.Config, db *models.Database, store *cache.Store, qc *queue.Client) *Container {
	if cfg == nil {
		cfg = &config.Config{}
	}
	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       store,
		QueueClient: qc,
		Metrics:     metrics.New(),
	}
	c.initRepositories()
	c.initServices()
	c.initMetrics()
	return c
}

func openDatabase(ctx context.Context, cfg *config.DatabaseConfig) *models.Database {
	db, err := models.Open(models.DBOptions{
		Driver:   cfg.Driver,
		DSN:      cfg.ResolveDSN(),
		LogLevel: cfg.LogLevel,
		Pool: models.DBPoolConfig{
			MaxOpenConns:           cfg.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Pool.ConnMaxIdleTimeSeconds,
		},
	})
	if err != nil {
		logger.Errorw("provider_init_database_failed", "driver", cfg.Driver, "error", err)
		return models.NewDatabase(nil)
	}
	if err := db.Probe(ctx); err != nil {
		logger.Errorw("provider_probe_database_failed", "driver", cfg.Driver, "error", err)
		return db
	}
	logger.Infow("provider_database_connected", "driver", cfg.Driver)
	return db
}

func (c *Container) initRepositories() {
	c.SettingRepo = repository.NewSettingRepository(c.DB.Gorm())
}

func (c *Container) initServices() {
	var invalidationQueue service.InvalidationQueue
	if c.QueueClient != nil {
		invalidationQueue = c.QueueClient
	}
	c.BrandingService = service.NewBrandingService(c.DB, c.SettingRepo, c.Cache, service.BrandingOptions{
		TTL:     time.Duration(c.Config.Cache.BrandingTTLSeconds) * time.Second,
		Queue:   invalidationQueue,
		Metrics: c.Metrics,
	})
	c.SettingService = service.NewSettingService(c.DB, c.SettingRepo, c.BrandingService)
	c.CacheService = service.NewCacheService(c.Cache, time.Duration(c.Config.Cache.DefaultTTLSeconds)*time.Second, c.Metrics)
	c.HealthService = service.NewHealthService(c.DB, c.Cache)
}

func (c *Container) initMetrics() {
	if err := c.Metrics.RegisterBackendProbe(constants.BackendMySQL, c.DB.Connected); err != nil {
		logger.Warnw("provider_register_metrics_failed", "backend", constants.BackendMySQL, "error", err)
	}
	if err := c.Metrics.RegisterBackendProbe(constants.BackendRedis, c.Cache.Connected); err != nil {
		logger.Warnw("provider_register_metrics_failed", "backend", constants.BackendRedis, "error", err)
	}
}

// Close 释放连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := c.Cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
	if err := c.DB.Close(); err != nil {
		logger.Warnw("provider_close_database_failed", "error", err)
	}
}
