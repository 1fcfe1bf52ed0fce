package worker

import (
	"context"
	"fmt"

	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/logger"
	"github.com/shm-admin/backend/internal/provider"
	"github.com/shm-admin/backend/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCacheInvalidate, c.handleCacheInvalidate)
}

// handleCacheInvalidate 删除缓存 key；Redis 不可用时返回错误交由 asynq 重试
func (c *Consumer) handleCacheInvalidate(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.ParseCacheInvalidatePayload(task)
	if err != nil {
		logger.Warnw("worker_cache_invalidate_invalid_payload", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if c == nil || c.Container == nil || !c.Cache.Enabled() {
		logger.Debugw("worker_cache_invalidate_skip_no_cache", "key", payload.Key)
		return nil
	}
	if !c.Cache.Connected() {
		if err := c.Cache.Ping(ctx); err != nil {
			logger.Warnw("worker_cache_invalidate_redis_unavailable", "key", payload.Key, "error", err)
			return err
		}
	}
	if _, err := c.Cache.Del(ctx, payload.Key); err != nil {
		logger.Warnw("worker_cache_invalidate_failed", "key", payload.Key, "error", err)
		return err
	}
	c.Metrics.ObserveInvalidation(constants.InvalidationDeleted)
	logger.Infow("worker_cache_invalidated", "key", payload.Key)
	return nil
}
