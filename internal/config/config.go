package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store driver names accepted by STORE_DRIVER.
const (
	DriverMongoDB   = "mongodb"
	DriverPostgREST = "postgrest"
	DriverMemory    = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	PostgREST PostgRESTConfig
	Cache     CacheConfig
	Summary   SummaryConfig
	Sheets    SheetsConfig
	Workflow  WorkflowConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig selects which record store implementation backs the service.
type StoreConfig struct {
	Driver string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// PostgRESTConfig holds settings for the hosted PostgREST-style data API.
type PostgRESTConfig struct {
	URL    string
	APIKey string
}

// CacheConfig holds settings for the optional Redis overview cache.
type CacheConfig struct {
	RedisAddr string
}

// SummaryConfig holds nightly rollup scheduler settings.
type SummaryConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration for the optional spreadsheet export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// WorkflowConfig tunes the workflow engine.
type WorkflowConfig struct {
	// StrictTransitions gates actions on the record's current stage instead
	// of allowing free-form stage overwrites.
	StrictTransitions bool
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Driver: getenvWithDefault("STORE_DRIVER", DriverMongoDB),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stitchline"),
		},
		PostgREST: PostgRESTConfig{
			URL:    os.Getenv("POSTGREST_URL"),
			APIKey: os.Getenv("POSTGREST_API_KEY"),
		},
		Cache: CacheConfig{
			RedisAddr: os.Getenv("REDIS_ADDR"),
		},
		Summary: SummaryConfig{
			CronSchedule: getenvWithDefault("SUMMARY_CRON_SCHEDULE", "5 0 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_EXPORT_ID"),
		},
		Workflow: WorkflowConfig{
			StrictTransitions: getenvWithDefault("WORKFLOW_STRICT_TRANSITIONS", "false") == "true",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case DriverPostgREST:
		if c.PostgREST.URL == "" {
			return errors.New("POSTGREST_URL must be provided")
		}
		if c.PostgREST.APIKey == "" {
			return errors.New("POSTGREST_API_KEY must be provided")
		}
	case DriverMemory:
		// No external settings required.
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Summary.CronSchedule == "" {
		return errors.New("SUMMARY_CRON_SCHEDULE must be provided")
	}

	if c.Summary.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// Sheets export is optional but must be configured as a pair.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_EXPORT_ID must be set together")
	}

	return nil
}

// SheetsExportEnabled reports whether the spreadsheet export sink is configured.
func (c *Config) SheetsExportEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
