package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/FACorreiaa/docscan/internal/domain/extraction"
	"github.com/FACorreiaa/docscan/internal/domain/extraction/handler"
	"github.com/FACorreiaa/docscan/internal/domain/extraction/service"
	"github.com/FACorreiaa/docscan/internal/domain/learning"
	"github.com/FACorreiaa/docscan/pkg/config"
	"github.com/FACorreiaa/docscan/pkg/db"
	"github.com/FACorreiaa/docscan/pkg/metrics"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config  *config.Config
	DB      *db.DB
	SQLite  *db.SQLite
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Repositories
	KeywordStore learning.Store

	// Services
	ExtractionService *service.Service

	// Handlers
	ExtractionHandler *handler.ExtractionHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		deps.Cleanup()
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Debug("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase connects to Postgres when enabled, otherwise to the local SQLite file,
// and runs migrations
func (d *Dependencies) initDatabase() error {
	if !d.Config.Database.Enabled {
		return d.initSQLite()
	}

	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Debug("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initSQLite() error {
	database, err := db.OpenSQLite(d.Config.Database.SQLitePath, d.Logger)
	if err != nil {
		return err
	}

	d.SQLite = database

	if err := d.SQLite.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Debug("postgres disabled, learned keywords kept in sqlite",
		slog.String("path", d.Config.Database.SQLitePath))
	return nil
}

// initRepositories selects the keyword store
func (d *Dependencies) initRepositories() error {
	switch {
	case d.DB != nil:
		d.KeywordStore = learning.NewPostgresStore(d.DB.Pool)
	case d.SQLite != nil:
		d.KeywordStore = learning.NewSQLiteStore(d.SQLite.DB)
	default:
		return errors.New("no keyword database configured")
	}
	return nil
}

// initServices initializes the service layer
func (d *Dependencies) initServices() error {
	if d.Config.Observability.MetricsEnabled {
		d.Metrics = metrics.New()
	}

	d.ExtractionService = service.NewService(
		d.KeywordStore,
		d.Metrics,
		d.Logger,
		extraction.WithTaxRate(d.Config.Extraction.DefaultTaxRate),
		extraction.WithTolerance(d.Config.Extraction.ReconciliationTolerance),
	)
	return nil
}

// initHandlers initializes the HTTP handlers
func (d *Dependencies) initHandlers() error {
	d.ExtractionHandler = handler.NewExtractionHandler(d.ExtractionService, d.Logger, d.Config.Server.MaxBodyBytes)
	return nil
}

// Routes builds the HTTP mux served by the serve command.
func (d *Dependencies) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	d.ExtractionHandler.Register(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}
	return mux
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	if d.SQLite != nil {
		if err := d.SQLite.Close(); err != nil {
			d.Logger.Warn("failed to close sqlite", slog.Any("error", err))
		}
	}
	d.Logger.Debug("cleanup completed")
}
