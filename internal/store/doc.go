// Package store defines the persistence interfaces for users and articles
// together with the error values every implementation reports.
//
// Implementations live under internal/platform: postgres for production and
// memory for local runs and tests. Services depend only on these interfaces.
package store
