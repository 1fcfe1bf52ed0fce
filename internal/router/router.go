package router

import (
	"net/http"
	"strings"

	"github.com/shm-admin/backend/internal/config"
	adminhandlers "github.com/shm-admin/backend/internal/http/handlers/admin"
	"github.com/shm-admin/backend/internal/http/response"
	"github.com/shm-admin/backend/internal/logger"
	"github.com/shm-admin/backend/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	writeLimit := WriteOnly(RateLimitMiddleware(rateLimitClient(c), RateLimitRule{
		Prefix:        c.Cache.Key("rate", "write"),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.WriteRateLimit.BlockSeconds,
	}, KeyByIP))

	metricsPath := strings.TrimSpace(cfg.Metrics.Path)
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	// 中间件
	r.Use(RecoveryMiddleware(log))
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log, metricsPath))
	r.Use(MetricsMiddleware(c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(BodyLimitMiddleware(cfg.Server.MaxBodyBytes))

	if cfg.Metrics.Enabled {
		r.GET(metricsPath, gin.WrapH(c.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/health", adminHandler.Health)

		api.GET("/branding", adminHandler.GetBranding)
		api.POST("/branding", adminHandler.SaveBranding)
		api.DELETE("/branding", adminHandler.ResetBranding)

		settings := api.Group("/settings", writeLimit)
		{
			settings.GET("/:key", adminHandler.GetSetting)
			settings.POST("/:key", adminHandler.UpdateSetting)
		}

		cacheGroup := api.Group("/cache", writeLimit)
		{
			cacheGroup.GET("/:key", adminHandler.GetCache)
			cacheGroup.POST("/:key", adminHandler.SetCache)
			cacheGroup.DELETE("/:key", adminHandler.DeleteCache)
		}
		api.DELETE("/cache", writeLimit, adminHandler.ClearCache)
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.Failure(ctx, http.StatusNotFound, response.MsgNotFound)
	})

	return r
}

func rateLimitClient(c *provider.Container) redis.Scripter {
	if c == nil || !c.Cache.Enabled() {
		return nil
	}
	return c.Cache.Client()
}
