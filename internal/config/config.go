// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aristath/alpha/internal/clients/exchanges"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DBPath              string        `env:"ALPHA_DB_PATH" envDefault:"alpha.db"`
	DefaultExchange     string        `env:"ALPHA_DEFAULT_EXCHANGE" envDefault:"binance"`
	DefaultQuote        string        `env:"ALPHA_DEFAULT_QUOTE" envDefault:"USDT"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty           bool          `env:"LOG_PRETTY" envDefault:"false"`
	Port                int           `env:"PORT" envDefault:"8080"`
	DevMode             bool          `env:"DEV_MODE" envDefault:"false"`
	HTTPTimeout         time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	RefreshSchedule     string        `env:"PRICE_REFRESH_SCHEDULE" envDefault:"@every 5m"`
	MaintenanceSchedule string        `env:"MAINTENANCE_SCHEDULE" envDefault:"@every 6h"`
	Backup              BackupConfig
	S3                  S3Config
	UI                  UIConfig
}

// BackupConfig controls local database backups
type BackupConfig struct {
	Dir           string `env:"BACKUP_DIR" envDefault:"backups"`
	Schedule      string `env:"BACKUP_SCHEDULE" envDefault:"@daily"`
	RetentionDays int    `env:"BACKUP_RETENTION_DAYS" envDefault:"30"`
}

// S3Config holds credentials for an S3-compatible bucket used for remote backups
type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Endpoint        string `env:"S3_ENDPOINT"`
	Region          string `env:"S3_REGION" envDefault:"auto"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Prefix          string `env:"S3_PREFIX" envDefault:"alpha-backups/"`
}

// Enabled reports whether remote backups are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// UIConfig holds cosmetic presentation options
type UIConfig struct {
	Theme    string `env:"UI_THEME" envDefault:"dark"`
	Currency string `env:"UI_CURRENCY" envDefault:"USD"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize resolves paths and canonicalises enum-like values
func (c *Config) normalize() error {
	c.DefaultExchange = strings.ToLower(strings.TrimSpace(c.DefaultExchange))
	c.DefaultQuote = strings.ToUpper(strings.TrimSpace(c.DefaultQuote))
	c.UI.Currency = strings.ToUpper(strings.TrimSpace(c.UI.Currency))

	absDB, err := filepath.Abs(c.DBPath)
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}
	c.DBPath = absDB

	if c.Backup.Dir != "" && !filepath.IsAbs(c.Backup.Dir) {
		c.Backup.Dir = filepath.Join(filepath.Dir(absDB), c.Backup.Dir)
	}

	return nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database path is required")
	}

	exchange, err := exchanges.ParseName(c.DefaultExchange)
	if err != nil {
		return fmt.Errorf("unsupported default exchange %q (supported: %s)",
			c.DefaultExchange, exchangeList())
	}
	c.DefaultExchange = string(exchange)

	if c.DefaultQuote == "" {
		return fmt.Errorf("default quote currency is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout cannot be negative")
	}

	if c.Backup.RetentionDays < 0 {
		return fmt.Errorf("backup retention cannot be negative")
	}

	// Partial S3 credentials are almost always a mistake
	if c.S3.Bucket != "" && (c.S3.AccessKeyID == "" || c.S3.SecretAccessKey == "") {
		return fmt.Errorf("S3 bucket configured without credentials")
	}

	return nil
}

// EnsureDirectories creates the directories the process writes to
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	if c.Backup.Dir != "" {
		if err := os.MkdirAll(c.Backup.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	}
	return nil
}

func exchangeList() string {
	names := make([]string, 0, len(exchanges.Names))
	for _, n := range exchanges.Names {
		names = append(names, string(n))
	}
	return strings.Join(names, ", ")
}
