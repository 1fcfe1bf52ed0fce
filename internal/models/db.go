package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrDatabaseNotInitialized 数据库连接未建立
var ErrDatabaseNotInitialized = errors.New("database not initialized")

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// DBOptions 数据库打开参数
type DBOptions struct {
	Driver   string
	DSN      string
	LogLevel string
	Pool     DBPoolConfig
}

// Database 关系库连接与连通性标记
// connected 仅由启动探测决定，失败后不会自动重连
type Database struct {
	db        *gorm.DB
	connected atomic.Bool
}

// NewDatabase 包装已有的 gorm 连接（未探测前视为未连接）
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Open 打开数据库连接
func Open(opts DBOptions) (*Database, error) {
	dialector, err := newDialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyDBPool(sqlDB, opts.Pool)
	return NewDatabase(db), nil
}

// Gorm 返回底层 gorm 连接，可能为 nil
func (d *Database) Gorm() *gorm.DB {
	if d == nil {
		return nil
	}
	return d.db
}

// Connected 关系库是否可用
func (d *Database) Connected() bool {
	return d != nil && d.db != nil && d.connected.Load()
}

// MarkConnected 更新连通性标记
func (d *Database) MarkConnected(ok bool) {
	if d == nil {
		return
	}
	d.connected.Store(ok)
}

// Probe 启动探测：ping、迁移表结构、写入默认品牌配置
func (d *Database) Probe(ctx context.Context) error {
	if d == nil || d.db == nil {
		return ErrDatabaseNotInitialized
	}
	err := d.probe(ctx)
	d.MarkConnected(err == nil)
	return err
}

func (d *Database) probe(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := AutoMigrate(d.db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if err := SeedBranding(ctx, d.db); err != nil {
		return fmt.Errorf("seed branding: %w", err)
	}
	return nil
}

// Close 关闭连接池
func (d *Database) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return ErrDatabaseNotInitialized
	}
	return db.AutoMigrate(&AdminSetting{})
}

func newDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}
