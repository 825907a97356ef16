// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"skycast/internal/types"
)

// Config is the full runtime configuration. Every field has a usable
// development default except the weather API key.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     int    `envconfig:"PORT" default:"8080"`

	Weather  WeatherConfig
	Storage  StorageConfig
	Tracking TrackingConfig
}

// WeatherConfig configures the upstream weather client.
type WeatherConfig struct {
	BaseURL string             `envconfig:"WEATHER_API_BASE_URL" default:"https://api.weatherapi.com/v1"`
	APIKey  types.SecretString `envconfig:"WEATHER_API_KEY" required:"true"`
	Timeout time.Duration      `envconfig:"WEATHER_API_TIMEOUT" default:"10s"`
}

// StorageConfig configures the local blob store.
type StorageConfig struct {
	Path string `envconfig:"STORAGE_PATH" default:"skycast.db"`
}

// TrackingConfig configures background position tracking for the alert
// daemon. Latitude/longitude seed the static provider when no live geo
// source is attached.
type TrackingConfig struct {
	Lat           float64       `envconfig:"TRACKING_LAT" default:"0"`
	Lon           float64       `envconfig:"TRACKING_LON" default:"0"`
	PollInterval  time.Duration `envconfig:"TRACKING_POLL_INTERVAL" default:"30m"`
	MinDistanceKm float64       `envconfig:"TRACKING_MIN_DISTANCE_KM" default:"5"`
	WeeklyCron    bool          `envconfig:"TRACKING_WEEKLY_CRON" default:"true"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over file entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.Tracking.Lat < -90 || cfg.Tracking.Lat > 90 {
		return nil, fmt.Errorf("invalid TRACKING_LAT %v", cfg.Tracking.Lat)
	}
	if cfg.Tracking.Lon < -180 || cfg.Tracking.Lon > 180 {
		return nil, fmt.Errorf("invalid TRACKING_LON %v", cfg.Tracking.Lon)
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
