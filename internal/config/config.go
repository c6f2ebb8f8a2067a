// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"route-timing-service/internal/domain"
)

type Config struct {
	Port           string `mapstructure:"port"`
	LogLevel       string `mapstructure:"log_level"`
	LogDevelopment bool   `mapstructure:"log_development"`
	Timezone       string `mapstructure:"timezone"`
	HomeAddress    string `mapstructure:"home_address"`

	StoreDriver string `mapstructure:"store_driver"`
	DBPath      string `mapstructure:"db_path"`
	DatabaseURL string `mapstructure:"database_url"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	SeedPath    string `mapstructure:"seed_path"`

	DirectionsProvider  string        `mapstructure:"directions_provider"`
	GoogleMapsAPIKey    string        `mapstructure:"google_maps_api_key"`
	ORSAPIKey           string        `mapstructure:"ors_api_key"`
	DirectionsRateLimit float64       `mapstructure:"directions_rate_limit"`
	DirectionsTimeout   time.Duration `mapstructure:"directions_timeout"`

	JobServiceMinutes      int    `mapstructure:"job_service_minutes"`
	SupplierServiceMinutes int    `mapstructure:"supplier_service_minutes"`
	PlaceServiceMinutes    int    `mapstructure:"place_service_minutes"`
	DefaultDeparture       string `mapstructure:"default_departure"`
}

var defaults = map[string]any{
	"port":                     "8080",
	"log_level":                "info",
	"log_development":          false,
	"timezone":                 "Local",
	"home_address":             "",
	"store_driver":             "sqlite",
	"db_path":                  "data/app.db",
	"database_url":             "",
	"redis_addr":               "localhost:6379",
	"redis_prefix":             "route:",
	"seed_path":                "",
	"directions_provider":      "google",
	"google_maps_api_key":      "",
	"ors_api_key":              "",
	"directions_rate_limit":    5.0,
	"directions_timeout":       "10s",
	"job_service_minutes":      60,
	"supplier_service_minutes": 30,
	"place_service_minutes":    30,
	"default_departure":        "08:00",
}

// Load reads .env (if present) and the process environment on top of the
// built-in defaults. Overrides win over everything and exist for tests and CLI flags.
func Load(overrides ...map[string]any) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config: read .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, o := range overrides {
		for k, val := range o {
			v.Set(k, val)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unknown store_driver %q", c.StoreDriver)
	}
	switch c.DirectionsProvider {
	case "google", "ors":
	default:
		return fmt.Errorf("unknown directions_provider %q", c.DirectionsProvider)
	}
	if c.StoreDriver == "postgres" && strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("database_url is required for the postgres store")
	}
	if c.JobServiceMinutes <= 0 || c.SupplierServiceMinutes <= 0 || c.PlaceServiceMinutes <= 0 {
		return errors.New("service minutes must be positive")
	}
	if _, err := domain.ParseClock(c.DefaultDeparture); err != nil {
		return fmt.Errorf("default_departure: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone used for route days.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) ServiceDurations() domain.ServiceDurations {
	dep, err := domain.ParseClock(c.DefaultDeparture)
	if err != nil {
		dep = domain.DefaultServiceDurations().DefaultDeparture
	}
	return domain.ServiceDurations{
		JobDefault:       time.Duration(c.JobServiceMinutes) * time.Minute,
		Supplier:         time.Duration(c.SupplierServiceMinutes) * time.Minute,
		Place:            time.Duration(c.PlaceServiceMinutes) * time.Minute,
		DefaultDeparture: dep,
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
