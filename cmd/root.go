package cmd

import (
	"fmt"
	"log"
	"os"

	"travel-booking/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

// Execute runs the root command. Without a subcommand it serves the API.
func Execute() {
	rootCmd := &cobra.Command{
		Use:     "travel-booking",
		Short:   "Travel booking API: flight search, bookings and payments",
		Version: Version,
		RunE:    runServe,
	}
	rootCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply the database schema before serving")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(notifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config and the logger shared by every command
func bootstrap() (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	return config, logger, nil
}
