package app

import (
	"context"
	"errors"

	"github.com/shm-admin/backend/internal/config"
	"github.com/shm-admin/backend/internal/logger"
	"github.com/shm-admin/backend/internal/provider"
	"github.com/shm-admin/backend/internal/router"
	"github.com/shm-admin/backend/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(ctx context.Context, cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}
	if mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, nil, errors.New("worker mode requires queue.enabled=true")
	}

	container := provider.NewContainer(ctx, cfg)
	logger.AttachHooks(container.Metrics.LogHook())

	services := []Service{NewCacheWatchService(container.Cache)}

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	// 初始化 Worker 服务，队列未启用时 all 模式仅运行 HTTP
	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			services = append(services, workerService)
		} else {
			logger.Infow("app_worker_skipped", "reason", "queue_disabled")
		}
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(context.Background(), opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"mode", opts.Mode,
		"mysql", container.DB.Connected(),
		"redis", container.Cache.Connected(),
		"queue", container.QueueClient.Enabled(),
	)
	return RunWithOptions(runner, opts)
}
