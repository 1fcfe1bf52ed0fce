package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shm-admin/backend/internal/config"
	"github.com/shm-admin/backend/internal/constants"
	"github.com/shm-admin/backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	defaultConnectRetries = 3
	defaultRetryStep      = 100 * time.Millisecond
	defaultRetryMax       = 3 * time.Second
	scanBatchSize         = 500
)

// ErrNotConnected Redis 当前不可用
var ErrNotConnected = errors.New("redis not connected")

// Store Redis 客户端封装，附带连通性标记
type Store struct {
	client    *redis.Client
	prefix    string
	retries   int
	retryStep time.Duration
	retryMax  time.Duration
	interval  time.Duration
	connected atomic.Bool
}

// NewStore 创建 Redis 存储（不会主动连接）
func NewStore(cfg *config.RedisConfig) *Store {
	if cfg == nil || !cfg.Enabled {
		return &Store{prefix: constants.DefaultRedisPrefix}
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}

	s := &Store{
		prefix:    normalizePrefix(cfg.Prefix),
		retries:   normalizeInt(cfg.ConnectRetries, defaultConnectRetries),
		retryStep: normalizeDuration(cfg.RetryStepMS, time.Millisecond, defaultRetryStep),
		retryMax:  normalizeDuration(cfg.RetryMaxMS, time.Millisecond, defaultRetryMax),
		interval:  time.Duration(cfg.HealthIntervalSeconds) * time.Second,
	}
	s.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
		OnConnect: func(ctx context.Context, cn *redis.Conn) error {
			s.markConnected(true)
			return nil
		},
	})
	return s
}

// NewStoreWithClient 使用已有客户端创建存储，主要用于测试
func NewStoreWithClient(client *redis.Client, prefix string) *Store {
	return &Store{
		client:    client,
		prefix:    normalizePrefix(prefix),
		retries:   defaultConnectRetries,
		retryStep: defaultRetryStep,
		retryMax:  defaultRetryMax,
	}
}

// Client 获取 Redis 客户端
func (s *Store) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.client
}

// Enabled Redis 是否已配置
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Connected Redis 当前是否可用
func (s *Store) Connected() bool {
	return s.Enabled() && s.connected.Load()
}

// Key 在全局前缀下构建 key
func (s *Store) Key(parts ...string) string {
	prefix := constants.DefaultRedisPrefix
	if s != nil {
		prefix = s.prefix
	}
	segments := []string{prefix}
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return strings.Join(segments, ":")
}

// Connect 初始连接，线性退避重试，超出次数后放弃
// 第 n 次重试等待 min(n*step, max)
func (s *Store) Connect(ctx context.Context) error {
	if !s.Enabled() {
		return ErrNotConnected
	}
	var err error
	for attempt := 0; ; attempt++ {
		if err = s.Ping(ctx); err == nil {
			return nil
		}
		if attempt >= s.retries {
			break
		}
		delay := retryDelay(attempt+1, s.retryStep, s.retryMax)
		logger.Debugw("redis_connect_retry", "attempt", attempt+1, "delay_ms", delay.Milliseconds(), "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	logger.Warnw("redis_connect_gave_up", "retries", s.retries, "error", err)
	return err
}

// Ping 探测连通性并更新标记
func (s *Store) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return ErrNotConnected
	}
	err := s.client.Ping(ctx).Err()
	s.markConnected(err == nil)
	return err
}

// Watch 周期性探测，interval 为 0 时直接返回
func (s *Store) Watch(ctx context.Context) {
	if !s.Enabled() || s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wasConnected := s.Connected()
			err := s.Ping(ctx)
			if err != nil && wasConnected {
				logger.Warnw("redis_connection_lost", "error", err)
			} else if err == nil && !wasConnected {
				logger.Infow("redis_connection_restored")
			}
		}
	}
}

// Get 读取原始值
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !s.Connected() {
		return nil, false, ErrNotConnected
	}
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		s.observe(err)
		return nil, false, err
	}
	return val, true, nil
}

// SetEX 写入带过期时间的值
func (s *Store) SetEX(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	err := s.client.Set(ctx, key, value, ttl).Err()
	s.observe(err)
	return err
}

// Del 删除 key，返回实际删除数量
func (s *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	if !s.Connected() {
		return 0, ErrNotConnected
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := s.client.Del(ctx, keys...).Result()
	s.observe(err)
	return n, err
}

// DelByPrefix 以 SCAN 遍历前缀下的所有 key 并批量删除
func (s *Store) DelByPrefix(ctx context.Context, prefix string) (int64, error) {
	if !s.Connected() {
		return 0, ErrNotConnected
	}
	pattern := prefix + "*"
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.observe(err)
		return 0, err
	}

	var deleted int64
	for start := 0; start < len(keys); start += scanBatchSize {
		end := start + scanBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		n, err := s.client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			s.observe(err)
			return deleted, err
		}
		deleted += n
	}
	return deleted, nil
}

// Close 关闭客户端
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	s.markConnected(false)
	return s.client.Close()
}

func (s *Store) observe(err error) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	// 服务端返回的错误（如 WRONGTYPE）不代表连接中断
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return
	}
	if s.connected.Swap(false) {
		logger.Warnw("redis_marked_disconnected", "error", err)
	}
}

func (s *Store) markConnected(ok bool) {
	s.connected.Store(ok)
}

func retryDelay(attempt int, step, max time.Duration) time.Duration {
	delay := time.Duration(attempt) * step
	if delay > max {
		return max
	}
	return delay
}

func normalizePrefix(prefix string) string {
	trimmed := strings.Trim(strings.TrimSpace(prefix), ":")
	if trimmed == "" {
		return constants.DefaultRedisPrefix
	}
	return trimmed
}

func normalizeInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func normalizeDuration(value int, unit time.Duration, fallback time.Duration) time.Duration {
	if value > 0 {
		return time.Duration(value) * unit
	}
	return fallback
}
