// Package storage persists the ledger snapshot under a single well-known key.
package storage

import (
	"context"
	"errors"

	"moneytracker/internal/core"
)

// SnapshotKey is the key every backend stores the snapshot under.
const SnapshotKey = "moneyTracker"

var (
	// ErrNoSnapshot is returned by Load when nothing was ever saved.
	ErrNoSnapshot = errors.New("no snapshot stored")
	// ErrMalformedSnapshot wraps every decoding failure.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)

// SnapshotStore overwrites and reads back the persisted snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snap core.Snapshot) error
	Load(ctx context.Context) (core.Snapshot, error)
}
