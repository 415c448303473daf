// Package docstore persists the collection as a single JSON document.
//
// Every backend exposes the same two operations: a plain read, and an
// Update that runs one read-modify-write cycle while holding the backend's
// exclusive lock (a mutex plus flock for files, a row lock for SQL).
package docstore

import (
	"context"
	"errors"
)

// ErrClosed is returned when the store has been closed
var ErrClosed = errors.New("document store closed")

// Store holds one JSON document.
type Store interface {
	// Read returns the stored document, or nil when nothing was written yet.
	Read(ctx context.Context) ([]byte, error)

	// Update passes the current document (nil when absent) to fn and
	// replaces it with fn's result. When fn fails nothing is written.
	Update(ctx context.Context, fn func(current []byte) ([]byte, error)) error

	// Close releases the backend's resources
	Close() error
}

// Driver names accepted by config
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DocumentName is the key under which SQL backends store the collection
const DocumentName = "collection"
