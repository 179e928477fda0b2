package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// MigrationCommands lists the goose commands accepted by Migrate.
var MigrationCommands = []string{"up", "down", "reset", "status", "version"}

// Migrate runs a goose command against db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger, args ...string) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command),
	)

	if !validCommand(command) {
		return fmt.Errorf("unknown migration command: %s (expected one of %v)", command, MigrationCommands)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	start := time.Now()
	log.Info("starting migration command")
	if err := goose.RunContext(ctx, command, db, "migrations", args...); err != nil {
		log.Error("migration command failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command completed", slog.Duration("duration", time.Since(start)))
	return nil
}

func validCommand(command string) bool {
	for _, c := range MigrationCommands {
		if c == command {
			return true
		}
	}
	return false
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level and does not exit; Migrate returns the error
// to the caller instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
