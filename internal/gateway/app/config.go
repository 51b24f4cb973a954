package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Credential store drivers selectable via CREDENTIAL_STORE.
const (
	StoreDriverMemory = "memory"
	StoreDriverFile   = "file"
	StoreDriverRedis  = "redis"
	StoreDriverSQLite = "sqlite"
)

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX" envDefault:"session:"`
}

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// BookingAPIURL is the base URL of the upstream booking API.
	BookingAPIURL   string        `env:"BOOKING_API_URL,required,notEmpty"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	// OutboundRPS throttles calls to the booking API; 0 disables the limiter.
	OutboundRPS float64 `env:"OUTBOUND_RPS" envDefault:"0"`

	// StoreDriver selects where the credential pair is persisted.
	StoreDriver   string `env:"CREDENTIAL_STORE" envDefault:"memory"`
	StoreFile     string `env:"CREDENTIAL_FILE" envDefault:"credentials.json"`
	StoreDatabase string `env:"CREDENTIAL_DB" envDefault:"credentials.db"`

	Redis RedisConfig
}

// LoadConfig reads configuration from the environment. A .env file, when
// present, seeds variables for local development but never overrides ones
// already set.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory, StoreDriverFile, StoreDriverRedis, StoreDriverSQLite:
	default:
		return Config{}, fmt.Errorf("unknown credential store driver %q", cfg.StoreDriver)
	}

	return cfg, nil
}
