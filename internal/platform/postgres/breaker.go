package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/quill-api/internal/store"
	"github.com/sony/gobreaker"
)

// BreakerConfig holds the circuit breaker settings for database calls.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32
	// Interval is how often the closed-state counters are cleared.
	Interval time.Duration
	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration
	// FailureRatio trips the breaker once at least MinRequests were seen.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig opens after five straight failures and retries after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		FailureRatio: 1.0,
		MinRequests:  5,
	}
}

// BreakerDB wraps a *sql.DB so that calls fail fast with
// gobreaker.ErrOpenState while the database is unreachable.
// Constraint and data errors count as successes; only infrastructure
// failures move the breaker.
type BreakerDB struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var _ store.DBTX = (*BreakerDB)(nil)

// NewBreakerDB wraps db with a circuit breaker configured by cfg.
func NewBreakerDB(db *sql.DB, cfg BreakerConfig, logger *slog.Logger) *BreakerDB {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "db_breaker"))

	settings := gobreaker.Settings{
		Name:        "postgres",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || isClientError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &BreakerDB{
		db: db,
		cb: gobreaker.NewCircuitBreaker(settings),
	}
}

// ExecContext executes a statement through the breaker.
func (b *BreakerDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.db.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// QueryContext executes a query through the breaker.
func (b *BreakerDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// PrepareContext prepares a statement through the breaker.
func (b *BreakerDB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.db.PrepareContext(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Stmt), nil
}

// QueryRowContext bypasses the breaker: *sql.Row defers its error to Scan.
// Stores in this package read single rows through QueryContext instead.
func (b *BreakerDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return b.db.QueryRowContext(ctx, query, args...)
}

// State returns the current breaker state.
func (b *BreakerDB) State() gobreaker.State {
	return b.cb.State()
}
