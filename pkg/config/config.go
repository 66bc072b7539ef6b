package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Extraction    ExtractionConfig
	Observability ObservabilityConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	CORSOrigins        []string
	// MaxBodyBytes caps the size of an extraction request.
	MaxBodyBytes int64
}

type DatabaseConfig struct {
	// Enabled selects the Postgres keyword store; otherwise keywords live in the
	// SQLite file at SQLitePath.
	Enabled    bool
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	SQLitePath string
}

type ExtractionConfig struct {
	// DefaultTaxRate is the VAT fraction used to derive a missing pre-tax amount.
	DefaultTaxRate decimal.Decimal
	// ReconciliationTolerance is the largest total mismatch reported as consistent.
	ReconciliationTolerance decimal.Decimal
}

type ObservabilityConfig struct {
	MetricsEnabled bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 40),
			CORSOrigins:        getEnvAsList("SERVER_CORS_ORIGINS", []string{"*"}),
			MaxBodyBytes:       int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 4<<20)),
		},
		Database: DatabaseConfig{
			Enabled:    getEnvAsBool("DB_ENABLED", false),
			Host:       getEnv("POSTGRES_HOST", "localhost"),
			Port:       getEnvAsInt("POSTGRES_PORT", 5432),
			User:       getEnv("POSTGRES_USER", "postgres"),
			Password:   getEnv("POSTGRES_PASSWORD", "postgres"),
			Database:   getEnv("POSTGRES_DB", "docscan"),
			SSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", defaultSQLitePath()),
		},
		Extraction: ExtractionConfig{
			DefaultTaxRate:          getEnvAsDecimal("EXTRACT_DEFAULT_TAX_RATE", decimal.RequireFromString("0.08")),
			ReconciliationTolerance: getEnvAsDecimal("EXTRACT_RECONCILE_TOLERANCE", decimal.NewFromInt(10)),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects out-of-range settings
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port))
	}
	if c.Server.RateLimitPerSecond <= 0 {
		errs = append(errs, errors.New("SERVER_RATE_LIMIT_PER_SECOND must be positive"))
	}
	if c.Server.RateLimitBurst < c.Server.RateLimitPerSecond {
		errs = append(errs, errors.New("SERVER_RATE_LIMIT_BURST must be at least the per-second limit"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("SERVER_MAX_BODY_BYTES must be positive"))
	}
	if c.Extraction.DefaultTaxRate.IsNegative() || c.Extraction.DefaultTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, fmt.Errorf("EXTRACT_DEFAULT_TAX_RATE must be in [0, 1): %s", c.Extraction.DefaultTaxRate))
	}
	if c.Extraction.ReconciliationTolerance.IsNegative() {
		errs = append(errs, errors.New("EXTRACT_RECONCILE_TOLERANCE must not be negative"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL not recognised: %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT not recognised: %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// defaultSQLitePath places the keyword file under the user's config directory.
func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "docscan.db"
	}
	return filepath.Join(dir, "docscan", "keywords.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := os.Getenv(key)
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
