package config

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "DB_ENABLED", "EXTRACT_DEFAULT_TAX_RATE", "EXTRACT_RECONCILE_TOLERANCE",
		"LOG_LEVEL", "LOG_FORMAT", "SERVER_CORS_ORIGINS", "SERVER_RATE_LIMIT_PER_SECOND",
		"SERVER_RATE_LIMIT_BURST", "SERVER_MAX_BODY_BYTES", "SQLITE_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, defaultSQLitePath(), cfg.Database.SQLitePath)
	assert.True(t, decimal.RequireFromString("0.08").Equal(cfg.Extraction.DefaultTaxRate))
	assert.True(t, decimal.NewFromInt(10).Equal(cfg.Extraction.ReconciliationTolerance))
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("EXTRACT_DEFAULT_TAX_RATE", "0.1")
	t.Setenv("SERVER_CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SQLITE_PATH", "/var/lib/docscan/kw.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "localhost:9000", cfg.Server.Addr())
	assert.True(t, cfg.Database.Enabled)
	assert.True(t, decimal.RequireFromString("0.1").Equal(cfg.Extraction.DefaultTaxRate))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/lib/docscan/kw.db", cfg.Database.SQLitePath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"tax rate of one hundred percent", "EXTRACT_DEFAULT_TAX_RATE", "1"},
		{"negative tax rate", "EXTRACT_DEFAULT_TAX_RATE", "-0.05"},
		{"negative tolerance", "EXTRACT_RECONCILE_TOLERANCE", "-1"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_SQLitePathRequiredWithoutPostgres(t *testing.T) {
	t.Setenv("DB_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Database.SQLitePath = ""
	assert.ErrorContains(t, cfg.Validate(), "SQLITE_PATH")

	cfg.Database.Enabled = true
	assert.NoError(t, cfg.Validate())
}

func TestDefaultSQLitePath(t *testing.T) {
	assert.Contains(t, []string{"keywords.db", "docscan.db"}, filepath.Base(defaultSQLitePath()))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "docscan", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=docscan sslmode=disable", c.DSN())
}
