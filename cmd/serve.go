package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"travel-booking/internal/data/migration"
	"travel-booking/internal/data/repository"
	"travel-booking/internal/event"
	"travel-booking/internal/gateway/amadeus"
	"travel-booking/internal/gateway/stripe"
	"travel-booking/internal/wire"
	"travel-booking/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveMigrate bool

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

Redis (idempotency keys) and Kafka (booking events) are optional and
enabled by REDIS_ADDR and KAFKA_BROKERS.

Examples:
  travel-booking serve
  travel-booking serve --migrate`,
		RunE: runServe,
	}

	cmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply the database schema before serving")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := config.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if serveMigrate {
		if err := migration.Migrate(ctx, db, logger); err != nil {
			return err
		}
	}

	// Optional Redis for idempotency keys
	rdb, err := database.InitRedis(ctx, config.Redis)
	if err != nil {
		logger.Error("Failed to connect to redis", zap.Error(err))
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Redis connected, idempotency keys enabled", zap.String("addr", config.Redis.Addr))
	}

	// Optional Kafka for booking events
	var events event.Publisher = event.Nop{}
	if len(config.Kafka.Brokers) > 0 {
		producer := event.NewProducer(config.Kafka.Brokers, config.Kafka.Topic, logger)
		defer producer.Close()
		events = producer
		logger.Info("Publishing booking events",
			zap.Strings("brokers", config.Kafka.Brokers),
			zap.String("topic", config.Kafka.Topic),
		)
	}

	app := wire.Wiring(wire.Dependencies{
		Repo:     repository.NewRepository(db, logger),
		Flights:  amadeus.NewClient(config.Amadeus, config.App.UpstreamTimeout, logger),
		Payments: stripe.NewClient(config.Stripe, config.App.UpstreamTimeout, logger),
		Events:   events,
		Redis:    rdb,
	}, config, logger)

	if err := APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}
