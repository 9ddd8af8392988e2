// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"weightlog/internal/domain"
	"weightlog/internal/logging"
)

// Storage backends.
const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

var validBackends = []string{BackendCSV, BackendSQLite, BackendPostgres, BackendMemory}

type Config struct {
	// HTTP server
	Addr   string
	WebDir string

	// Storage
	Backend     string
	CSVPath     string
	JSONPath    string
	SQLitePath  string
	DatabaseURL string

	// Unit entries are recorded in.
	Unit string

	LogLevel string
}

// LoadEnvFile loads variables from path into the environment without
// overriding ones already set. An empty path loads ./.env if present.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		return godotenv.Load()
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func Load() *Config {
	return &Config{
		Addr:   getEnv("ADDR", ":8080"),
		WebDir: getEnv("WEB_DIR", ""),

		Backend:     getEnv("WEIGHTLOG_BACKEND", BackendCSV),
		CSVPath:     getEnv("WEIGHTLOG_CSV_PATH", "weight_data.csv"),
		JSONPath:    getEnv("WEIGHTLOG_JSON_PATH", "weight_data.json"),
		SQLitePath:  getEnv("WEIGHTLOG_SQLITE_PATH", "./data/weightlog.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		Unit:     getEnv("WEIGHTLOG_UNIT", domain.UnitKg),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, port, err := net.SplitHostPort(c.Addr); err != nil {
		errors = append(errors, fmt.Sprintf("invalid address '%s': %v", c.Addr, err))
	} else if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be between 0 and 65535", port))
	}

	if !slices.Contains(validBackends, c.Backend) {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	switch c.Backend {
	case BackendCSV:
		if c.CSVPath == "" {
			errors = append(errors, "CSV path cannot be empty when using csv backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	}

	if err := domain.ValidateUnit(c.Unit); err != nil {
		errors = append(errors, fmt.Sprintf("invalid unit '%s': must be kg or lb", c.Unit))
	}

	if !logging.ValidLevel(c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
