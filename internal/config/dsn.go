package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const defaultDialTimeout = 5 * time.Second

// ResolveDSN 返回数据库连接串
// 显式配置的 dsn 优先；mysql 驱动下由分项配置拼接
func (c DatabaseConfig) ResolveDSN() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	if driver != "" && driver != "mysql" {
		return ""
	}

	dsnCfg := mysql.NewConfig()
	dsnCfg.User = c.User
	dsnCfg.Passwd = c.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	dsnCfg.DBName = c.Name
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC
	dsnCfg.Timeout = defaultDialTimeout
	dsnCfg.Params = map[string]string{"charset": "utf8mb4"}
	return dsnCfg.FormatDSN()
}
