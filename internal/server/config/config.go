// Package config loads gateway daemon settings from the environment, with
// an optional .env overlay for development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains gateway daemon configuration parameters.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`

	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
	Storage   Storage   `envPrefix:"STORAGE_"`
}

// RateLimit bounds requests per caller on the download proxy.
type RateLimit struct {
	Enabled       bool          `env:"ENABLED" envDefault:"true"`
	Requests      int           `env:"REQUESTS" envDefault:"60"`
	Window        time.Duration `env:"WINDOW" envDefault:"1m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

// Storage configures which gateways the daemon races for downloads.
type Storage struct {
	SelfHostedAPI      string   `env:"SELFHOSTED_API"`
	SelfHostedGateway  string   `env:"SELFHOSTED_GATEWAY"`
	SelfHostedUser     string   `env:"SELFHOSTED_USER"`
	SelfHostedPassword string   `env:"SELFHOSTED_PASSWORD"`
	PinataGateway      string   `env:"PINATA_GATEWAY"`
	PinataToken        string   `env:"PINATA_TOKEN"`
	PinataGatewayToken string   `env:"PINATA_GATEWAY_TOKEN"`
	PublicGateways     []string `env:"PUBLIC_GATEWAYS" envSeparator:"," envDefault:"https://ipfs.io,https://dweb.link"`
}

// Load reads .env (if present), then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
