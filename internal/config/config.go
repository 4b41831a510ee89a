package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/mlipski/salesledger/internal/currency"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"salesledger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"salesledger"`
	}

	Server struct {
		Timeout       time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		MaxUploadSize int64         `envconfig:"MAX_UPLOAD_SIZE" default:"10485760"`
	}

	Auth struct {
		Enabled  bool          `envconfig:"REQUIRE_AUTH" default:"false"`
		Secret   string        `envconfig:"SECRET_KEY" default:"change-me"`
		APIToken string        `envconfig:"API_TOKEN" default:"change-me"`
		TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	}

	Rates struct {
		EUR decimal.Decimal `envconfig:"RATE_EUR" default:"4.3"`
		USD decimal.Decimal `envconfig:"RATE_USD" default:"4.0"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// ExchangeRates returns the configured PLN conversion rates. PLN is
// the base currency and always converts at 1.
func (c *Config) ExchangeRates() currency.Rates {
	return currency.Rates{
		currency.PLN: decimal.NewFromInt(1),
		currency.EUR: c.Rates.EUR,
		currency.USD: c.Rates.USD,
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
