// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query execution, mapping between domain entities and database
// records, driver error translation, the embedded goose migrations, and an
// optional circuit breaker around the connection pool.
package postgres
