package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shm-admin/backend/internal/config"
	"github.com/shm-admin/backend/internal/logger"

	"go.uber.org/zap"
)

// 运行模式
const (
	ModeAll    = "all"    // HTTP + 队列消费
	ModeAPI    = "api"    // 仅 HTTP
	ModeWorker = "worker" // 仅队列消费
)

const defaultShutdownTimeout = 10 * time.Second

// Options 启动参数
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ParseMode 规范化运行模式，空值视为 all
func ParseMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		return ModeAll, nil
	}
	if !validMode(mode) {
		return "", fmt.Errorf("unknown mode %q (want %s, %s or %s)", raw, ModeAll, ModeAPI, ModeWorker)
	}
	return mode, nil
}

func validMode(mode string) bool {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return true
	default:
		return false
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	if mode, err := ParseMode(opts.Mode); err == nil {
		opts.Mode = mode
	}
	return opts
}
