package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

const (
	BackendMongoDB = "mongodb"
	BackendMemory  = "memory"
)

// Locales lists the report languages with a message file.
var Locales = []string{"pt-BR", "en"}

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig

	location *time.Location
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend      string `env:"STORE_BACKEND" envDefault:"mongodb"`
	SeedDefaults bool   `env:"SEED_DEFAULTS" envDefault:"true"`
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI          string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	DBName       string        `env:"MONGODB_DB_NAME" envDefault:"linetrack"`
	PollInterval time.Duration `env:"MONGODB_POLL_INTERVAL" envDefault:"2s"`
}

// SheetsConfig contains configuration required to export to Google Sheets.
// Export is disabled while CredentialsPath is empty.
type SheetsConfig struct {
	CredentialsPath string   `env:"GOOGLE_SHEETS_CREDENTIALS_PATH"`
	ShareWith       []string `env:"GOOGLE_SHEETS_SHARE_WITH" envSeparator:","`
}

// Enabled reports whether spreadsheet export is configured.
func (c SheetsConfig) Enabled() bool { return c.CredentialsPath != "" }

// ReportingConfig holds scheduler and report settings.
type ReportingConfig struct {
	CronSchedule string `env:"REPORT_CRON_SCHEDULE" envDefault:"0 20 * * *"`
	Timezone     string `env:"TIMEZONE" envDefault:"America/Sao_Paulo"`
	Locale       string `env:"REPORT_LOCALE" envDefault:"pt-BR"`
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API. The
// nightly summary is only sent when it is complete.
type WhatsAppConfig struct {
	AccessToken   string `env:"WHATSAPP_TOKEN"`
	PhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID"`
	BaseURL       string `env:"WHATSAPP_BASE_URL" envDefault:"https://graph.facebook.com"`
	APIVersion    string `env:"WHATSAPP_API_VERSION" envDefault:"v20.0"`
	Recipient     string `env:"WHATSAPP_REPORT_RECIPIENT"`
}

// Enabled reports whether the WhatsApp summary can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.Recipient != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// a missing .env is fine when the environment is set directly
		_ = godotenv.Load()
	}

	return FromEnvironment(env.ToMap(os.Environ()))
}

// FromEnvironment parses and validates a Config from the given variables.
func FromEnvironment(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and
// consistent with each other.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if _, err := zapcore.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
		if c.MongoDB.PollInterval <= 0 {
			return errors.New("MONGODB_POLL_INTERVAL must be positive")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %s or %s, got %q", BackendMongoDB, BackendMemory, c.Store.Backend)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE: %w", err)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	c.location = loc

	if !slices.Contains(Locales, c.Reporting.Locale) {
		return fmt.Errorf("REPORT_LOCALE must be one of %v, got %q", Locales, c.Reporting.Locale)
	}

	if c.WhatsApp.AccessToken != "" {
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

// Location returns the configured timezone, UTC before Validate succeeds.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
