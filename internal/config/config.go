package config

import (
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"HTTP_SERVER_PORT"` specify the environment variable
// name, `default:""` a fallback, and `required:"true"` makes it mandatory.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	HttpServer ServerConfig
	Database   DatabaseConfig
	Payment    PaymentConfig
	Seed       SeedConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// DatabaseConfig holds the PostgreSQL connection string. The service cannot
// serve anything without a database, so this one is required up front.
type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`
}

// PaymentConfig holds the payment gateway credentials and endpoints.
// ShopID/SecretKey are deliberately not required at startup: the catalog
// endpoints work without them, and the payment endpoint reports a
// configuration error per request when they are absent.
type PaymentConfig struct {
	ShopID    string `envconfig:"YOOKASSA_SHOP_ID"`
	SecretKey string `envconfig:"YOOKASSA_SECRET_KEY"`
	APIURL    string `envconfig:"PAYMENT_API_URL" default:"https://api.yookassa.ru/v3/payments"`
	ReturnURL string `envconfig:"PAYMENT_RETURN_URL" default:"https://yoursite.com/order-success"`
}

// Configured reports whether gateway credentials are present.
func (pc *PaymentConfig) Configured() bool {
	return pc.ShopID != "" && pc.SecretKey != ""
}

// SeedConfig holds the row targets for the demo-data seeding endpoint.
type SeedConfig struct {
	Products int `envconfig:"SEED_PRODUCTS" default:"15000"`
	Services int `envconfig:"SEED_SERVICES" default:"1000"`
}

// Load initializes the configuration from environment variables.
// It should be called once during application startup.
func Load() (*Config, error) {
	log.Println("INFO: Loading service configuration...")
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	log.Printf("INFO: Configuration loaded for APP_ENV: %s", cfg.AppEnv)
	return &cfg, nil
}
