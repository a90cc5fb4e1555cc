package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment
// sets a value. Europe/Warsaw is the zone of the feeds this tool was
// built for; point Timezone elsewhere for other feeds.
const (
	DefaultTimezone = "Europe/Warsaw"
	DefaultLogLevel = "info"
)

type RegistryConfig struct {
	Driver    string `yaml:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN       string `yaml:"dsn"`
	Directory string `yaml:"directory"`
}

type Config struct {
	FeedPath string         `yaml:"feed_path"`
	Timezone string         `yaml:"timezone" validate:"required"`
	LogLevel string         `yaml:"log_level" validate:"required,oneof=debug info warn error"`
	Registry RegistryConfig `yaml:"registry"`
}

// Loads configuration from an optional YAML file, applies TABLICA_*
// environment overrides and defaults, and validates the result. An
// empty path yields a config built from environment and defaults
// alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.FeedPath = getEnv("TABLICA_FEED", cfg.FeedPath)
	cfg.Timezone = getEnv("TABLICA_TIMEZONE", cfg.Timezone)
	cfg.LogLevel = getEnv("TABLICA_LOG_LEVEL", cfg.LogLevel)
	cfg.Registry.Driver = getEnv("TABLICA_REGISTRY_DRIVER", cfg.Registry.Driver)
	cfg.Registry.DSN = getEnv("TABLICA_REGISTRY_DSN", cfg.Registry.DSN)
	cfg.Registry.Directory = getEnv("TABLICA_REGISTRY_DIR", cfg.Registry.Directory)

	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
