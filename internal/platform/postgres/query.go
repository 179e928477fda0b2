package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/quill-api/internal/platform/metrics"
	"github.com/phrazzld/quill-api/internal/store"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryOne runs a query expected to return at most one row and scans it with
// scan. It goes through QueryContext rather than QueryRowContext so that a
// breaker-wrapped DBTX sees connection failures.
// Returns sql.ErrNoRows when the query yields nothing.
func queryOne(
	ctx context.Context,
	db store.DBTX,
	operation string,
	scan func(rowScanner) error,
	query string,
	args ...any,
) error {
	defer observe(operation, time.Now())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := scan(rows); err != nil {
		return err
	}
	return rows.Err()
}

// queryMany runs a query and calls scan once per row.
func queryMany(
	ctx context.Context,
	db store.DBTX,
	operation string,
	scan func(rowScanner) error,
	query string,
	args ...any,
) error {
	defer observe(operation, time.Now())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// exec runs a statement and records its duration.
func exec(ctx context.Context, db store.DBTX, operation string, query string, args ...any) (sql.Result, error) {
	defer observe(operation, time.Now())
	return db.ExecContext(ctx, query, args...)
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}
