package main

import (
	"fmt"

	"github.com/clintmariano/careerlog/config"
	"github.com/clintmariano/careerlog/internal/logger"
	pgrepo "github.com/clintmariano/careerlog/internal/repositories/postgres"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel)

		db, err := config.InitPostgres(cfg.PostgresURI, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("postgres init: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := pgrepo.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema migrated")
		return nil
	},
}
