package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	AI        AIConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig selects the local key-value backend and its backing path.
type StorageConfig struct {
	Backend string // "file", "sqlite" or "memory"
	Path    string
}

// AIConfig holds settings for the Gemini text-generation service. An empty
// key disables AI features rather than failing startup.
type AIConfig struct {
	GeminiKey string
	Model     string
}

// ReportingConfig controls the optional scheduled PDF snapshot.
type ReportingConfig struct {
	Enabled      bool
	CronSchedule string
	OutputDir    string
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
		Storage: StorageConfig{
			Backend: getenvWithDefault("STORAGE_BACKEND", "file"),
			Path:    getenvWithDefault("STORAGE_PATH", "textrack.json"),
		},
		AI: AIConfig{
			GeminiKey: os.Getenv("GEMINI_API_KEY"),
			Model:     getenvWithDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
		Reporting: ReportingConfig{
			Enabled:      os.Getenv("REPORT_SCHEDULE_ENABLED") == "true",
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			OutputDir:    getenvWithDefault("REPORT_OUTPUT_DIR", "reports"),
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

	switch c.Storage.Backend {
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH must be provided for the %s backend", c.Storage.Backend)
		}
	case "memory":
	default:
		return fmt.Errorf("STORAGE_BACKEND %q is not supported", c.Storage.Backend)
	}

	if c.AI.Model == "" {
		return errors.New("GEMINI_MODEL must not be empty")
	}

	if c.Reporting.Enabled {
		if c.Reporting.CronSchedule == "" {
			return errors.New("REPORT_CRON_SCHEDULE must be provided when scheduling is enabled")
		}
		if c.Reporting.OutputDir == "" {
			return errors.New("REPORT_OUTPUT_DIR must be provided when scheduling is enabled")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
