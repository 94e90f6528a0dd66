package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port         int    `env:"PORT" envDefault:"3001"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./pricehawk.db"`
	// CheckSchedule is a cron expression; the default runs the sweep hourly.
	CheckSchedule string        `env:"CHECK_SCHEDULE" envDefault:"0 * * * *"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s"`
	// RequestDelay is the pause between product fetches within one sweep.
	RequestDelay time.Duration `env:"REQUEST_DELAY" envDefault:"2s"`
	ExpoPushURL  string        `env:"EXPO_PUSH_URL" envDefault:"https://exp.host/--/api/v2/push/send"`
}

// Load reads configuration from the environment. A .env file is loaded first
// when present; a missing one is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("can't parse env variables: %w", err)
	}
	return &cfg, nil
}
