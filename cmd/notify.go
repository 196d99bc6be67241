package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"travel-booking/internal/data/repository"
	"travel-booking/internal/event"
	"travel-booking/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Consume booking events and notify customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := config.ValidateDatabase(); err != nil {
				return err
			}
			if len(config.Kafka.Brokers) == 0 {
				return errors.New("KAFKA_BROKERS is required for notify")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := database.InitDB(ctx, config.Database)
			if err != nil {
				logger.Error("Failed to connect to database", zap.Error(err))
				return err
			}
			defer db.Close()

			repo := repository.NewRepository(db, logger)
			notifier := event.NewNotifier(repo.User, logger)

			consumer := event.NewConsumer(config.Kafka.Brokers, config.Kafka.GroupID, config.Kafka.Topic, logger)
			defer consumer.Close()

			logger.Info("Consuming booking events",
				zap.Strings("brokers", config.Kafka.Brokers),
				zap.String("topic", config.Kafka.Topic),
				zap.String("group_id", config.Kafka.GroupID),
			)

			return consumer.Consume(ctx, notifier.Handle)
		},
	}
}
