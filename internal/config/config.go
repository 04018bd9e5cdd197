package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Billing   BillingConfig   `yaml:"billing"`
	Renewal   RenewalConfig   `yaml:"renewal"`
	Timezone  string          `yaml:"timezone"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// TransportConfig selects how the MCP server is exposed: "stdio" or "http".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type BillingConfig struct {
	MinBilledHours    int `yaml:"min_billed_hours"`
	ExpiryHorizonDays int `yaml:"expiry_horizon_days"`
}

// RenewalConfig controls the in-process daily renewal trigger. At is a
// wall-clock time (HH:MM) in the configured timezone.
type RenewalConfig struct {
	Enabled bool   `yaml:"enabled"`
	At      string `yaml:"at"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "hourbank.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Billing: BillingConfig{
			MinBilledHours:    billing.DefaultMinBilledHours,
			ExpiryHorizonDays: billing.DefaultExpiryHorizonDays,
		},
		Renewal: RenewalConfig{
			Enabled: true,
			At:      "02:00",
		},
		Timezone: "America/Sao_Paulo",
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// A non-empty path takes precedence over HOURBANK_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("HOURBANK_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("HOURBANK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("HOURBANK_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if dbPath := os.Getenv("HOURBANK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("HOURBANK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("HOURBANK_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("HOURBANK_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if err := envBool("HOURBANK_AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	if err := envInt("HOURBANK_MIN_BILLED_HOURS", &cfg.Billing.MinBilledHours); err != nil {
		return err
	}
	if err := envInt("HOURBANK_EXPIRY_HORIZON_DAYS", &cfg.Billing.ExpiryHorizonDays); err != nil {
		return err
	}
	if err := envBool("HOURBANK_RENEWAL_ENABLED", &cfg.Renewal.Enabled); err != nil {
		return err
	}
	if at := os.Getenv("HOURBANK_RENEWAL_AT"); at != "" {
		cfg.Renewal.At = at
	}
	if tz := os.Getenv("HOURBANK_TIMEZONE"); tz != "" {
		cfg.Timezone = tz
	}
	return nil
}

func envInt(name string, dst *int) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func envBool(name string, dst *bool) error {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*dst = v
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Billing.MinBilledHours < 1 {
		return fmt.Errorf("billing.min_billed_hours must be at least 1")
	}
	if c.Billing.ExpiryHorizonDays < 0 {
		return fmt.Errorf("billing.expiry_horizon_days must not be negative")
	}
	if _, err := c.RenewalOffset(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Policy returns the billing rules derived from configuration.
func (c Config) Policy() billing.Policy {
	return billing.Policy{
		MinBilledHours:    c.Billing.MinBilledHours,
		ExpiryHorizonDays: c.Billing.ExpiryHorizonDays,
	}
}

// Location resolves the configured IANA timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RenewalOffset returns renewal.at as an offset from local midnight.
func (c Config) RenewalOffset() (time.Duration, error) {
	d, err := billing.ParseClock(c.Renewal.At)
	if err != nil {
		return 0, fmt.Errorf("invalid renewal.at: %w", err)
	}
	return d, nil
}
