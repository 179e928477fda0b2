// Package main runs the quill-api HTTP server: account registration and
// login plus article submission, listing, likes and edits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/docgen"
	"github.com/phrazzld/quill-api/internal/config"
	"github.com/phrazzld/quill-api/internal/platform/logger"
	"github.com/phrazzld/quill-api/internal/platform/postgres"
)

type options struct {
	printRoutes bool
	migrate     string
}

func main() {
	var opts options
	flag.BoolVar(&opts.printRoutes, "routes", false, "print the route table as JSON and exit")
	flag.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("quill-api: %v", err)
	}
}

// run loads configuration and then serves, migrates or prints routes
// depending on opts.
func run(ctx context.Context, opts options, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"article_auth_mode", cfg.Articles.AuthMode)

	switch {
	case opts.migrate != "":
		return runMigrations(ctx, cfg, opts.migrate, l)
	case opts.printRoutes:
		return printRoutes(ctx, cfg, stdout, l)
	}

	shutdownTracing := setupTracing()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			l.Error("failed to shut down tracer provider", "error", err)
		}
	}()

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func runMigrations(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations need the %s driver, configured driver is %s",
			config.DriverPostgres, cfg.Database.Driver)
	}
	db, err := setupAppDatabase(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return postgres.Migrate(ctx, db, command, l)
}

// printRoutes writes the chi route table. Stores are swapped for the
// in-memory driver so no database is needed.
func printRoutes(ctx context.Context, cfg *config.Config, stdout io.Writer, l *slog.Logger) error {
	memCfg := *cfg
	memCfg.Database.Driver = config.DriverMemory

	app, err := newApplication(ctx, &memCfg, l)
	if err != nil {
		return err
	}
	defer app.cleanup()

	_, err = fmt.Fprintln(stdout, docgen.JSONRoutesDoc(app.setupRouter()))
	return err
}
