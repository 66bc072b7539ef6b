package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations_sqlite/*.sql
var sqliteMigrations embed.FS

// SQLite is a single-file database used when Postgres is disabled.
type SQLite struct {
	DB     *sql.DB
	Path   string
	logger *slog.Logger
}

// OpenSQLite opens or creates the database file at path, creating its directory.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time keeps concurrent learns from tripping SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	logger.Info("sqlite database ready", slog.String("path", path))
	return &SQLite{DB: sqlDB, Path: path, logger: logger}, nil
}

// RunMigrations applies the embedded SQLite migrations
func (s *SQLite) RunMigrations() error {
	goose.SetBaseFS(sqliteMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(s.DB, "migrations_sqlite"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(s.DB)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	s.logger.Info("migrations applied", slog.Int64("version", version), slog.String("path", s.Path))
	return nil
}

// Close releases the database handle
func (s *SQLite) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
