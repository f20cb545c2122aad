package backend

import (
	"context"

	"moneytracker/internal/storage"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// Pinger is implemented by backends that hold a connection worth checking
// from a readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendResult contains the snapshot store and optional cleanup function
type BackendResult struct {
	Store   storage.SnapshotStore
	Cleanup CleanupFunc
}

// Ping checks the backend connection when it has one.
func (r *BackendResult) Ping(ctx context.Context) error {
	if p, ok := r.Store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close runs the cleanup function if any.
func (r *BackendResult) Close() error {
	if r.Cleanup != nil {
		return r.Cleanup()
	}
	return nil
}

// Factory creates snapshot stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath     string
	JSONSnapshotPath string
	DatabaseURL      string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	MemoryBackend   BackendType = "memory"
	JSONFileBackend BackendType = "jsonfile"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend, JSONFileBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
