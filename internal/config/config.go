// Package config loads runtime settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// ServerConfig controls the HTTP listener and the request guards.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	StaticDir   string `yaml:"static_dir"`
	DisableAuth bool   `yaml:"disable_auth"`
	// IdempotencyTTL bounds how long an Idempotency-Key is remembered.
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

// StorageConfig selects the backend that holds patient data and accounts.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// RedisConfig is used when storage.driver is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// OIDCConfig enables SSO login when Issuer and ClientID are set.
type OIDCConfig struct {
	Issuer       string `yaml:"issuer"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether SSO login is configured.
func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

// LogConfig sets the zap level and encoder.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// AuthConfig tunes password login.
type AuthConfig struct {
	// SimulatedLatency delays login and register responses.
	SimulatedLatency time.Duration `yaml:"simulated_latency"`
	SeedDemoUser     bool          `yaml:"seed_demo_user"`
}

// InquiryConfig simulates the network delay of the contact form and of
// expert questions.
type InquiryConfig struct {
	ContactLatency time.Duration `yaml:"contact_latency"`
	ExpertLatency  time.Duration `yaml:"expert_latency"`
}

// Config is the root of the YAML file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	OIDC    OIDCConfig    `yaml:"oidc"`
	Log     LogConfig     `yaml:"log"`
	Auth    AuthConfig    `yaml:"auth"`

	Inquiries InquiryConfig `yaml:"inquiries"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			IdempotencyTTL: 10 * time.Minute,
		},
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: defaultSQLitePath(),
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "oncocare:",
		},
		Log: LogConfig{Level: "info"},
		Auth: AuthConfig{
			SeedDemoUser: true,
		},
	}
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "oncocare.db"
	}
	return filepath.Join(dir, "oncocare", "oncocare.db")
}

// Load reads path (if it exists) over the defaults, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.overrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overrideFromEnv() {
	setString(&c.Server.Addr, "ONCOCARE_ADDR")
	setString(&c.Storage.Driver, "ONCOCARE_STORAGE_DRIVER")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")
	setString(&c.Storage.SQLitePath, "ONCOCARE_SQLITE_PATH")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}
	setString(&c.OIDC.Issuer, "OIDC_ISSUER")
	setString(&c.OIDC.ClientID, "OIDC_CLIENT_ID")
	setString(&c.OIDC.ClientSecret, "OIDC_CLIENT_SECRET")
	setString(&c.OIDC.RedirectURL, "OIDC_REDIRECT_URL")
	setString(&c.Log.Level, "ONCOCARE_LOG_LEVEL")
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate checks driver-specific requirements.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.OIDC.Enabled() && c.OIDC.RedirectURL == "" {
		return errors.New("OIDC_REDIRECT_URL is required when SSO is configured")
	}
	if c.Server.IdempotencyTTL < 0 {
		return errors.New("server.idempotency_ttl must not be negative")
	}
	return nil
}
