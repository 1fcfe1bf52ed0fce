package router

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shm-admin/backend/internal/http/response"
	"github.com/shm-admin/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求中提取限流主体
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
// BlockSeconds > 0 时，首次超限会把窗口延长为封禁时长
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
}

// Enabled 规则是否生效
func (r RateLimitRule) Enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(subject string) string {
	if r.Prefix == "" {
		return subject
	}
	return r.Prefix + ":" + subject
}

// KEYS[1] 计数 key；ARGV 依次为窗口秒数、封禁秒数、上限
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if tonumber(ARGV[2]) > 0 and current == tonumber(ARGV[3]) + 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[2])
end
return {current, redis.call("TTL", KEYS[1])}
`)

type rateDecision struct {
	count int64
	ttl   time.Duration
}

func (d rateDecision) remaining(limit int) int64 {
	if left := int64(limit) - d.count; left > 0 {
		return left
	}
	return 0
}

func takeToken(ctx context.Context, client redis.Scripter, rule RateLimitRule, key string) (rateDecision, error) {
	values, err := rateLimitScript.Run(ctx, client, []string{key},
		rule.WindowSeconds, rule.BlockSeconds, rule.MaxRequests).Int64Slice()
	if err != nil {
		return rateDecision{}, err
	}
	if len(values) < 2 {
		return rateDecision{}, redis.Nil
	}
	return rateDecision{count: values[0], ttl: time.Duration(values[1]) * time.Second}, nil
}

// RateLimitMiddleware 基于 Redis 的写请求限流
// 客户端缺失或 Redis 出错时放行
func RateLimitMiddleware(client redis.Scripter, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.Enabled() {
			c.Next()
			return
		}

		subject := ""
		if keyFunc != nil {
			subject = strings.TrimSpace(keyFunc(c))
		}
		if subject == "" {
			subject = c.ClientIP()
		}
		key := rule.key(subject)

		decision, err := takeToken(c.Request.Context(), client, rule, key)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.remaining(rule.MaxRequests), 10))
		if decision.count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}

		wait := int(decision.ttl / time.Second)
		if wait < 1 {
			wait = rule.WindowSeconds
		}
		if wait < 1 {
			wait = 1
		}
		logger.Debugw("rate_limit_exceeded", "key", key, "count", decision.count, "retry_after", wait)
		c.Header("Retry-After", strconv.Itoa(wait))
		response.AbortFailure(c, http.StatusTooManyRequests, response.MsgTooManyRequests)
	}
}

// WriteOnly 仅对写请求应用中间件
func WriteOnly(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			next(c)
		}
	}
}

// KeyByIP 以客户端 IP 为限流主体
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}
