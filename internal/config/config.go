// Package config loads the application configuration from a YAML file with
// environment-variable overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"provision/internal/reconcile"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	Database struct {
		Dialect string `yaml:"dialect"` // "sqlite3" or "postgres"
		DSN     string `yaml:"dsn"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Reconcile struct {
		SmallOrderMaxItems int     `yaml:"small_order_max_items"`
		SmallOrderMinValue float64 `yaml:"small_order_min_value"`
		QuoteExpiryDays    int     `yaml:"quote_expiry_days"`
		BlockingValidation bool    `yaml:"blocking_validation"`
	} `yaml:"reconcile"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Database.Dialect = "sqlite3"
	cfg.Database.DSN = "provision.db"
	cfg.Reconcile.SmallOrderMaxItems = 2
	cfg.Reconcile.SmallOrderMinValue = 50
	cfg.Reconcile.QuoteExpiryDays = 14
	return cfg
}

// Load reads the YAML config at path, starting from defaults. JWT_SECRET
// and DATABASE_DSN environment variables override the file when set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	return cfg, nil
}

// GroupingConfig translates the reconcile section into the engine's
// grouping thresholds.
func (c *Config) GroupingConfig() reconcile.GroupingConfig {
	return reconcile.GroupingConfig{
		SmallOrderMaxItems: c.Reconcile.SmallOrderMaxItems,
		SmallOrderMinValue: c.Reconcile.SmallOrderMinValue,
	}
}

// ValidationConfig translates the reconcile section into the engine's
// validation settings.
func (c *Config) ValidationConfig() reconcile.ValidationConfig {
	return reconcile.ValidationConfig{
		QuoteMaxAge: time.Duration(c.Reconcile.QuoteExpiryDays) * 24 * time.Hour,
		Blocking:    c.Reconcile.BlockingValidation,
		Grouping:    c.GroupingConfig(),
	}
}
