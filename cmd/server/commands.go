package main

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/shm-admin/backend/internal/app"
	"github.com/shm-admin/backend/internal/config"
	"github.com/shm-admin/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const migrateTimeout = 30 * time.Second

func newRootCmd() *cobra.Command {
	var mode string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 接口与异步任务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(mode)
		},
	}
	serveCmd.Flags().StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "建表并写入默认品牌配置",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()
			if err := app.Migrate(ctx, cfg); err != nil {
				logger.Errorw("migrate_failed", "error", err)
				return err
			}
			return nil
		},
	}

	rootCmd := &cobra.Command{
		Use:           "shm-admin",
		Short:         "SHM 管理端后端：设置存储与缓存接口",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(mode)
		},
	}
	rootCmd.Flags().StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	return cfg
}

func runServe(raw string) error {
	mode, err := app.ParseMode(raw)
	if err != nil {
		return err
	}
	printStartupBanner()
	cfg := loadConfig()
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	return app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	})
}
