package main

import (
	"context"
	"fmt"

	"SocialServer/apps/account/internal/repository"
	"SocialServer/config"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/mysql"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users and friend_requests tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		zl, err := logger.Build(cfg.Logger)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger.ReplaceGlobal(zl)
		defer zl.Sync()

		db, err := mysql.Build(cfg.MySQL)
		if err != nil {
			return err
		}
		defer mysql.Close(db)

		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info(context.Background(), "数据表迁移完成", logger.String("database", cfg.MySQL.Database))
		return nil
	},
}
