package main

import (
	"restaurant-menu-api/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and unique indexes, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := config.InitDB(cfg.Database, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Info("migrations applied", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}
