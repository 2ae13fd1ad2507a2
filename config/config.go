// Package config loads the tracker configuration from an optional YAML file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Database struct {
		Path  string `yaml:"path"`
		Debug bool   `yaml:"debug"`
	} `yaml:"database"`

	Auth struct {
		SecretKey            string        `yaml:"secret_key"`
		Issuer               string        `yaml:"issuer"`
		AccessTokenDuration  time.Duration `yaml:"access_token_duration"`
		RefreshTokenDuration time.Duration `yaml:"refresh_token_duration"`
		BcryptCost           int           `yaml:"bcrypt_cost"`
	} `yaml:"auth"`

	Notification struct {
		RedisAddr string `yaml:"redis_addr"`
		Queue     string `yaml:"queue"`
		History   int    `yaml:"history"`
	} `yaml:"notification"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultPath is read when no path is given and TASKTRACKER_CONFIG is unset.
const DefaultPath = "tasktracker.yaml"

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 3000
	cfg.Server.ShutdownTimeout = 30 * time.Second
	cfg.Database.Path = "tasktracker.db"
	cfg.Auth.SecretKey = "change-me-in-production"
	cfg.Auth.Issuer = "task-tracker"
	cfg.Auth.AccessTokenDuration = 30 * time.Minute
	cfg.Auth.RefreshTokenDuration = 7 * 24 * time.Hour
	cfg.Auth.BcryptCost = 12
	cfg.Notification.Queue = "tasktracker:notifications"
	cfg.Notification.History = 500
	cfg.Log.Level = "info"
	return cfg
}

// Load reads path (or TASKTRACKER_CONFIG, or DefaultPath) when it exists,
// fills unset fields with defaults and applies environment overrides.
// A missing file is not an error unless path was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv("TASKTRACKER_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would make the application unusable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Auth.SecretKey == "" {
		return errors.New("auth secret key is required")
	}
	if c.Auth.AccessTokenDuration <= 0 || c.Auth.RefreshTokenDuration <= 0 {
		return errors.New("token durations must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DB_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DB_DEBUG %q: %w", v, err)
		}
		cfg.Database.Debug = debug
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		cfg.Auth.SecretKey = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Notification.RedisAddr = v
	}
	if v := os.Getenv("NOTIFY_QUEUE"); v != "" {
		cfg.Notification.Queue = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
