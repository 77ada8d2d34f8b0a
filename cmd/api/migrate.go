package main

import (
	"context"
	"time"

	"github.com/Trinhvhao/event-management/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db, logger)

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		if err := database.AutoMigrate(ctx, db); err != nil {
			return err
		}
		logger.Info().Int("tables", len(database.Models())).Msg("schema migrated")
		return nil
	},
}
