package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.Server.Port != "3001" {
		t.Fatalf("server port want 3001 got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.Host != "mysql" || cfg.Database.Port != 3306 {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Database.User != "shm" || cfg.Database.Name != "shm" || cfg.Database.Password != "" {
		t.Fatalf("unexpected database credentials defaults: %+v", cfg.Database)
	}
	if cfg.Database.Pool.MaxOpenConns != 10 {
		t.Fatalf("pool size want 10 got %d", cfg.Database.Pool.MaxOpenConns)
	}
	if cfg.Redis.Host != "localhost" || cfg.Redis.Port != 6379 || cfg.Redis.Prefix != "shm-admin" {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Redis.ConnectRetries != 3 || cfg.Redis.RetryStepMS != 100 || cfg.Redis.RetryMaxMS != 3000 {
		t.Fatalf("unexpected redis retry defaults: %+v", cfg.Redis)
	}
	if cfg.Cache.DefaultTTLSeconds != 300 || cfg.Cache.BrandingTTLSeconds != 3600 {
		t.Fatalf("unexpected cache ttl defaults: %+v", cfg.Cache)
	}
	if cfg.Queue.Enabled {
		t.Fatalf("queue should be disabled by default")
	}
}

func TestLoadFromLegacyEnvNames(t *testing.T) {
	t.Setenv("BACKEND_PORT", "4010")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USER", "admin")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_NAME", "billing")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "redis-secret")

	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load from env failed: %v", err)
	}
	if cfg.Server.Port != "4010" {
		t.Fatalf("server port want 4010 got %s", cfg.Server.Port)
	}
	db := cfg.Database
	if db.Host != "db.internal" || db.Port != 3307 || db.User != "admin" || db.Password != "secret" || db.Name != "billing" {
		t.Fatalf("database env not applied: %+v", db)
	}
	if cfg.Redis.Host != "cache.internal" || cfg.Redis.Port != 6380 || cfg.Redis.Password != "redis-secret" {
		t.Fatalf("redis env not applied: %+v", cfg.Redis)
	}
	if got := cfg.Server.Addr(); got != "0.0.0.0:4010" {
		t.Fatalf("addr want 0.0.0.0:4010 got %s", got)
	}
}

func TestLoadFromNestedEnvNames(t *testing.T) {
	t.Setenv("CACHE_DEFAULT_TTL_SECONDS", "60")
	t.Setenv("QUEUE_ENABLED", "true")

	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load from env failed: %v", err)
	}
	if cfg.Cache.DefaultTTLSeconds != 60 {
		t.Fatalf("default ttl want 60 got %d", cfg.Cache.DefaultTTLSeconds)
	}
	if !cfg.Queue.Enabled {
		t.Fatalf("queue should be enabled from env")
	}
}

func TestResolveDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Driver:   "mysql",
		Host:     "db.internal",
		Port:     3307,
		User:     "shm",
		Password: "p@ss",
		Name:     "shm",
	}
	dsn := cfg.ResolveDSN()
	for _, part := range []string{"shm:p@ss@tcp(db.internal:3307)/shm", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, part) {
			t.Fatalf("dsn %q should contain %q", dsn, part)
		}
	}

	cfg.DSN = "  file::memory:  "
	if got := cfg.ResolveDSN(); got != "file::memory:" {
		t.Fatalf("explicit dsn should win, got %q", got)
	}

	sqliteCfg := DatabaseConfig{Driver: "sqlite"}
	if got := sqliteCfg.ResolveDSN(); got != "" {
		t.Fatalf("sqlite without dsn should be empty, got %q", got)
	}
}

func TestQueueInheritsRedisConnection(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "redis-secret")

	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load from env failed: %v", err)
	}
	if cfg.Queue.Host != "redis" || cfg.Queue.Port != 6380 || cfg.Queue.Password != "redis-secret" {
		t.Fatalf("queue should inherit the redis connection, got %+v", cfg.Queue)
	}
	if cfg.Queue.DB != 1 {
		t.Fatalf("queue db want 1 got %d", cfg.Queue.DB)
	}
}

func TestQueueExplicitConnectionWins(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("QUEUE_HOST", "queue.internal")
	t.Setenv("QUEUE_PORT", "6390")

	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load from env failed: %v", err)
	}
	if cfg.Queue.Host != "queue.internal" || cfg.Queue.Port != 6390 {
		t.Fatalf("explicit queue connection should win, got %+v", cfg.Queue)
	}
}

func TestServerMaxBodyBytesDefault(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load defaults failed: %v", err)
	}
	if cfg.Server.MaxBodyBytes != 100*1024 {
		t.Fatalf("max body bytes want 102400 got %d", cfg.Server.MaxBodyBytes)
	}
}
