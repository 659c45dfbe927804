package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config contains all runtime settings for the task service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool
	SeedTasks      bool

	LogLevel  string
	LogFormat string

	DatabaseURL string
}

// fileConfig mirrors Config for the optional TOML file. Pointers distinguish
// unset keys from zero values.
type fileConfig struct {
	BindAddr         *string `toml:"bind_addr"`
	ShutdownTimeout  *string `toml:"shutdown_timeout"`
	MetricsNamespace *string `toml:"metrics_namespace"`
	AllowAnyOrigin   *bool   `toml:"allow_any_origin"`
	SeedTasks        *bool   `toml:"seed_tasks"`
	LogLevel         *string `toml:"log_level"`
	LogFormat        *string `toml:"log_format"`
	DatabaseURL      *string `toml:"database_url"`
}

// Default returns the settings used when neither a config file nor any
// environment variable is present.
func Default() Config {
	return Config{
		BindAddr:         "127.0.0.1:8081",
		ShutdownTimeout:  15 * time.Second,
		MetricsNamespace: "taskapi",
		AllowAnyOrigin:   true,
		SeedTasks:        true,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load applies defaults, then the TOML file named by APP_CONFIG_FILE (if
// any), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := stringsTrimSpace("APP_CONFIG_FILE"); path != "" {
		if err := loadConfigFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg.BindAddr = envOrDefault("APP_BIND_ADDR", cfg.BindAddr)
	cfg.MetricsNamespace = envOrDefault("APP_METRICS_NAMESPACE", cfg.MetricsNamespace)
	cfg.LogLevel = strings.ToLower(envOrDefault("APP_LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(envOrDefault("APP_LOG_FORMAT", cfg.LogFormat))
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.SeedTasks, err = boolFromEnv("APP_SEED_TASKS", cfg.SeedTasks)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.BindAddr) == "" {
		return fmt.Errorf("APP_BIND_ADDR must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.MetricsNamespace) == "" {
		return fmt.Errorf("APP_METRICS_NAMESPACE must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid APP_LOG_LEVEL: %q (expected debug|info|warn|error)", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid APP_LOG_FORMAT: %q (expected text|json|logfmt)", c.LogFormat)
	}
	return nil
}

func loadConfigFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}
	if fc.BindAddr != nil {
		cfg.BindAddr = strings.TrimSpace(*fc.BindAddr)
	}
	if fc.ShutdownTimeout != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*fc.ShutdownTimeout))
		if err != nil {
			return fmt.Errorf("shutdown_timeout parse error: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if fc.MetricsNamespace != nil {
		cfg.MetricsNamespace = strings.TrimSpace(*fc.MetricsNamespace)
	}
	if fc.AllowAnyOrigin != nil {
		cfg.AllowAnyOrigin = *fc.AllowAnyOrigin
	}
	if fc.SeedTasks != nil {
		cfg.SeedTasks = *fc.SeedTasks
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*fc.LogLevel))
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(*fc.LogFormat))
	}
	if fc.DatabaseURL != nil {
		cfg.DatabaseURL = strings.TrimSpace(*fc.DatabaseURL)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b, nil
	}
	switch v {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
