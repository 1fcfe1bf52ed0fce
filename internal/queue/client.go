package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shm-admin/backend/internal/config"
	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	defaultMaxRetry    = 10
	defaultConcurrency = 2
	// 同一 key 的失效任务在窗口内只保留一份
	invalidateUniqueTTL = 30 * time.Second
	invalidateTimeout   = 10 * time.Second
	retryDelayStep      = time.Second
	retryDelayMax       = 30 * time.Second
)

// Client 缓存失效任务投递端
// 未启用时所有投递均为空操作
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	c := &Client{queue: DefaultQueue, maxRetry: defaultMaxRetry}
	if cfg == nil || !cfg.Enabled {
		return c, nil
	}
	if cfg.MaxRetry > 0 {
		c.maxRetry = cfg.MaxRetry
	}
	c.client = asynq.NewClient(buildRedisOpt(cfg))
	return c, nil
}

// Enabled 是否可投递
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueCacheInvalidate 投递缓存失效任务，窗口内重复投递视为成功
func (c *Client) EnqueueCacheInvalidate(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewCacheInvalidateTask(CacheInvalidatePayload{Key: key})
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(invalidateTimeout),
		asynq.Unique(invalidateUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Debugw("queue_cache_invalidate_deduplicated", "key", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskCacheInvalidate, err)
	}
	logger.Debugw("queue_cache_invalidate_enqueued", "key", key, "task_id", info.ID, "queue", info.Queue)
	return nil
}

// BuildServerConfig 生成消费端配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := defaultConcurrency
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency:    concurrency,
		Queues:         queues,
		Logger:         logger.S(),
		RetryDelayFunc: retryDelay,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warnw("queue_task_failed",
				"type", task.Type(),
				"retried", retried,
				"max_retry", maxRetry,
				"error", err,
			)
		}),
	}
}

// retryDelay 线性退避，第 n 次重试等待 min(n*step, max)
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	delay := time.Duration(n+1) * retryDelayStep
	if delay > retryDelayMax {
		return retryDelayMax
	}
	return delay
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
