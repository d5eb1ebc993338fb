// Package config loads service configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	StoreDriver string
	DBConnStr   string
	SQLitePath  string
	LogLevel    string
	LogFormat   string
	SeedFile    string
}

// Load loads configuration from environment variables.
// It loads .env from the current directory if present, or the given file when one is passed.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Missing .env is fine
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:    getEnv("GRPC_ADDR", ":9090"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DBConnStr:   dbConnStr(),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/simplebanking.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		SeedFile:    os.Getenv("SEED_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBConnStr == "" {
			return fmt.Errorf("DB_CONN_STR is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s driver", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)", c.StoreDriver, DriverPostgres, DriverSQLite, DriverMemory)
	}

	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return fmt.Errorf("at least one of HTTP_ADDR or GRPC_ADDR must be set")
	}
	return nil
}

// dbConnStr returns DB_CONN_STR, or builds it from individual vars (Docker friendly)
func dbConnStr() string {
	if conn := os.Getenv("DB_CONN_STR"); conn != "" {
		return conn
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "simplebanking"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
