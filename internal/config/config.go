package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	ServerPort int    `envconfig:"SERVER_PORT" default:"8080"`
	AdminToken string `envconfig:"ADMIN_TOKEN" default:""`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"tqr_rpe"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"tqr_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Google Sheets
	GoogleServiceAccountEmail string        `envconfig:"GOOGLE_SERVICE_ACCOUNT_EMAIL" default:""`
	GooglePrivateKey          string        `envconfig:"GOOGLE_PRIVATE_KEY" default:""`
	GoogleSpreadsheetID       string        `envconfig:"GOOGLE_SPREADSHEET_ID" default:""`
	GoogleDriveFolderID       string        `envconfig:"GOOGLE_DRIVE_FOLDER_ID" default:""`
	SheetsSyncTimeout         time.Duration `envconfig:"SHEETS_SYNC_TIMEOUT" default:"60s"`
	SheetsSyncOnSubmit        bool          `envconfig:"SHEETS_SYNC_ON_SUBMIT" default:"false"`

	// Redis (optional token-resolution cache)
	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"false"`
	NightlySyncCron string `envconfig:"NIGHTLY_SYNC_CRON" default:"0 3 * * *"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	// Credentials come as a pair; one without the other leaves the sheets
	// client half-configured and failing at request time
	if (c.GoogleServiceAccountEmail == "") != (c.GooglePrivateKey == "") {
		return fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_PRIVATE_KEY must be set together")
	}

	if c.EnableScheduler && (!c.SheetsConfigured() || c.GoogleSpreadsheetID == "") {
		return fmt.Errorf("ENABLE_SCHEDULER requires Google Sheets credentials and GOOGLE_SPREADSHEET_ID")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// SheetsConfigured reports whether Google Sheets credentials are present
func (c *Config) SheetsConfigured() bool {
	return c.GoogleServiceAccountEmail != "" && c.GooglePrivateKey != ""
}

// GooglePrivateKeyPEM returns the private key with escaped newlines restored.
// Deployment platforms commonly store the PEM as a single line with literal
// \n sequences.
func (c *Config) GooglePrivateKeyPEM() string {
	return strings.ReplaceAll(c.GooglePrivateKey, `\n`, "\n")
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
