package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shm-admin/backend/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Cache    CacheConfig    `mapstructure:"cache"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`           // debug / release
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"` // 请求体上限，<= 0 时不限制
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Level        string `mapstructure:"level"` // 为空时按 server.mode 决定
	MirrorStderr bool   `mapstructure:"mirror_stderr"`
	Dir          string `mapstructure:"dir"`
	Filename     string `mapstructure:"filename"`
	MaxSizeMB    int    `mapstructure:"max_size_mb"`
	MaxBackups   int    `mapstructure:"max_backups"`
	MaxAgeDays   int    `mapstructure:"max_age_days"`
	Compress     bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:        c.Level,
		MirrorStderr: c.MirrorStderr,
		Dir:          c.Dir,
		Filename:     c.Filename,
		MaxSizeMB:    c.MaxSizeMB,
		MaxBackups:   c.MaxBackups,
		MaxAgeDays:   c.MaxAgeDays,
		Compress:     c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
// DSN 为空时由 Host/Port/User/Password/Name 拼接（仅 mysql）
type DatabaseConfig struct {
	Driver   string             `mapstructure:"driver"` // mysql / postgres / sqlite
	DSN      string             `mapstructure:"dsn"`
	Host     string             `mapstructure:"host"`
	Port     int                `mapstructure:"port"`
	User     string             `mapstructure:"user"`
	Password string             `mapstructure:"password"`
	Name     string             `mapstructure:"name"`
	LogLevel string             `mapstructure:"log_level"` // silent / error / warn / info
	Pool     DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	Password              string `mapstructure:"password"`
	DB                    int    `mapstructure:"db"`
	Prefix                string `mapstructure:"prefix"`
	ConnectRetries        int    `mapstructure:"connect_retries"`
	RetryStepMS           int    `mapstructure:"retry_step_ms"`
	RetryMaxMS            int    `mapstructure:"retry_max_ms"`
	HealthIntervalSeconds int    `mapstructure:"health_interval_seconds"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	MaxRetry    int            `mapstructure:"max_retry"`
	Queues      map[string]int `mapstructure:"queues"`
}

// inheritRedis 未单独配置的队列连接参数取自缓存 Redis
// 队列与缓存共用同一 Redis 时，缓存故障期间投递失效任务同样会失败
func (c *QueueConfig) inheritRedis(r RedisConfig) {
	if strings.TrimSpace(c.Host) == "" {
		c.Host = r.Host
	}
	if c.Port <= 0 {
		c.Port = r.Port
	}
	if c.Password == "" {
		c.Password = r.Password
	}
}

// CacheConfig 缓存 TTL 配置
type CacheConfig struct {
	DefaultTTLSeconds  int `mapstructure:"default_ttl_seconds"`
	BrandingTTLSeconds int `mapstructure:"branding_ttl_seconds"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	WriteRateLimit RateLimitConfig `mapstructure:"write_rate_limit"`
}

// RateLimitConfig 限流配置，WindowSeconds 或 MaxRequests 为 0 时不限流
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// MetricsConfig 指标导出配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// envBindings 兼容旧版 Node 后端的环境变量名
var envBindings = map[string][]string{
	"server.port":       {"BACKEND_PORT", "SERVER_PORT"},
	"database.host":     {"DB_HOST", "DATABASE_HOST"},
	"database.port":     {"DB_PORT", "DATABASE_PORT"},
	"database.user":     {"DB_USER", "DATABASE_USER"},
	"database.password": {"DB_PASS", "DATABASE_PASSWORD"},
	"database.name":     {"DB_NAME", "DATABASE_NAME"},
	"redis.host":        {"REDIS_HOST"},
	"redis.port":        {"REDIS_PORT"},
	"redis.password":    {"REDIS_PASSWORD"},
}

// Load 加载配置：.env -> config.yml -> 环境变量
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnw("dotenv_load_failed", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("./etc")

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// LoadFrom 基于给定 viper 实例补齐默认值与环境变量后解析配置
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Queue.inheritRedis(cfg.Redis)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.max_body_bytes", 100*1024)
	v.SetDefault("log.level", "")
	v.SetDefault("log.mirror_stderr", true)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "shm-admin.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "mysql")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "shm")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "shm")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.pool.max_open_conns", 10)
	v.SetDefault("database.pool.max_idle_conns", 10)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "shm-admin")
	v.SetDefault("redis.connect_retries", 3)
	v.SetDefault("redis.retry_step_ms", 100)
	v.SetDefault("redis.retry_max_ms", 3000)
	v.SetDefault("redis.health_interval_seconds", 10)

	v.SetDefault("queue.enabled", false)
	// 为空时沿用 redis.* 的连接参数
	v.SetDefault("queue.host", "")
	v.SetDefault("queue.port", 0)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 2)
	v.SetDefault("queue.max_retry", 10)
	v.SetDefault("queue.queues", map[string]int{"default": 1})

	v.SetDefault("cache.default_ttl_seconds", 300)
	v.SetDefault("cache.branding_ttl_seconds", 3600)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("security.write_rate_limit.window_seconds", 0)
	v.SetDefault("security.write_rate_limit.max_requests", 0)
	v.SetDefault("security.write_rate_limit.block_seconds", 0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
