package cmd

import (
	"travel-booking/internal/data/migration"
	"travel-booking/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := config.ValidateDatabase(); err != nil {
				return err
			}

			db, err := database.InitDB(cmd.Context(), config.Database)
			if err != nil {
				logger.Error("Failed to connect to database", zap.Error(err))
				return err
			}
			defer db.Close()

			return migration.Migrate(cmd.Context(), db, logger)
		},
	}
}
