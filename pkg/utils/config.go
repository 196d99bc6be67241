package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Amadeus  AmadeusConfig
	Stripe   StripeConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type AppConfig struct {
	Name            string
	Port            string `validate:"required"`
	Debug           bool
	LogPath         string
	AllowedOrigins  []string
	UpstreamTimeout time.Duration
}

type DatabaseConfig struct {
	URL      string `validate:"required"`
	MaxConns int32
}

type AmadeusConfig struct {
	BaseURL   string `validate:"required,url"`
	APIKey    string `validate:"required"`
	APISecret string `validate:"required"`
}

type StripeConfig struct {
	SecretKey string `validate:"required"`
	BaseURL   string `validate:"omitempty,url"`
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// env keys reported when a required value is missing
var configKeys = map[string]string{
	"Port":      "PORT",
	"URL":       "DATABASE_URL",
	"BaseURL":   "AMADEUS_BASE_URL / STRIPE_BASE_URL",
	"APIKey":    "AMADEUS_API_KEY",
	"APISecret": "AMADEUS_API_SECRET",
	"SecretKey": "STRIPE_SECRET_KEY",
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "travel-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("AMADEUS_BASE_URL", "https://test.api.amadeus.com")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("KAFKA_TOPIC", "travel-booking-events")
	viper.SetDefault("KAFKA_GROUP_ID", "travel-booking-notifier")

	// .env is optional; the process environment always wins
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			AllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			UpstreamTimeout: time.Duration(viper.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		},
		Database: DatabaseConfig{
			URL:      viper.GetString("DATABASE_URL"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Amadeus: AmadeusConfig{
			BaseURL:   viper.GetString("AMADEUS_BASE_URL"),
			APIKey:    viper.GetString("AMADEUS_API_KEY"),
			APISecret: viper.GetString("AMADEUS_API_SECRET"),
		},
		Stripe: StripeConfig{
			SecretKey: viper.GetString("STRIPE_SECRET_KEY"),
			BaseURL:   viper.GetString("STRIPE_BASE_URL"),
		},
		Redis: RedisConfig{
			Addr:           viper.GetString("REDIS_ADDR"),
			Password:       viper.GetString("REDIS_PASSWORD"),
			DB:             viper.GetInt("REDIS_DB"),
			IdempotencyTTL: time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
			GroupID: viper.GetString("KAFKA_GROUP_ID"),
		},
	}

	return config, nil
}

// Validate fails when a credential or connection setting needed to serve
// requests is missing.
func (c *Config) Validate() error {
	return validateSections(c.App, c.Database, c.Amadeus, c.Stripe)
}

// ValidateDatabase checks only what the offline commands need.
func (c *Config) ValidateDatabase() error {
	return validateSections(c.Database)
}

func validateSections(sections ...any) error {
	var missing []string
	for _, section := range sections {
		for field, msg := range ValidateStruct(section) {
			key := field
			if env, ok := configKeys[field]; ok {
				key = env
			}
			missing = append(missing, fmt.Sprintf("%s (%s)", key, strings.ToLower(msg)))
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("invalid configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
