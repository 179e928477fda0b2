// Package memory provides process-local implementations of the store
// interfaces. They back the "memory" database driver and the service tests.
// Data is lost when the process exits.
package memory
