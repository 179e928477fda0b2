package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/quill-api/internal/config"
	"github.com/phrazzld/quill-api/internal/platform/memory"
	"github.com/phrazzld/quill-api/internal/platform/postgres"
	"github.com/phrazzld/quill-api/internal/service/article"
	"github.com/phrazzld/quill-api/internal/service/auth"
	"github.com/phrazzld/quill-api/internal/store"
)

// application holds the shared dependencies built at startup.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db *sql.DB

	userStore    store.UserStore
	articleStore store.ArticleStore

	authService    auth.Service
	articleService article.Service
}

// newApplication builds stores and services for cfg. With the postgres
// driver it connects, optionally migrates and wraps the pool in a circuit
// breaker.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}

	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT service initialized", "token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.authService, err = auth.NewService(app.userStore, tokens, auth.NewBcryptHasher(cfg.Auth.BCryptCost), logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	mode, err := article.ParseAuthMode(cfg.Articles.AuthMode)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	app.articleService, err = article.NewService(app.articleStore, app.userStore, mode, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create article service: %w", err)
	}

	logger.Info("application initialized", "article_auth_mode", string(mode))
	return app, nil
}

func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case config.DriverMemory:
		app.userStore = memory.NewUserStore(app.logger)
		app.articleStore = memory.NewArticleStore(app.logger)
		app.logger.Warn("using in-memory stores; data is lost on restart")
		return nil

	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, app.config.Database, app.logger)
		if err != nil {
			return err
		}
		app.db = db

		if app.config.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up", app.logger); err != nil {
				app.cleanup()
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		var conn store.DBTX = db
		if app.config.Database.BreakerEnabled {
			conn = postgres.NewBreakerDB(db, postgres.DefaultBreakerConfig(), app.logger)
		}
		app.userStore = postgres.NewPostgresUserStore(conn, app.logger)
		app.articleStore = postgres.NewPostgresArticleStore(conn, app.logger)
		return nil

	default:
		return fmt.Errorf("unknown database driver %q", app.config.Database.Driver)
	}
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
		app.db = nil
	}
}
