package storage

import (
	"context"
	"errors"
	"log/slog"

	"moneytracker/internal/core"
)

// SnapshotLoader is the read side of a SnapshotStore.
type SnapshotLoader interface {
	Load(ctx context.Context) (core.Snapshot, error)
}

// LoadOrDefault reads the stored snapshot and falls back to no transactions
// and the default categories when it is absent or cannot be read. It never
// fails so startup always has a usable state.
func LoadOrDefault(ctx context.Context, l SnapshotLoader) core.Snapshot {
	snap, err := l.Load(ctx)
	switch {
	case err == nil:
		return snap
	case errors.Is(err, ErrNoSnapshot):
		slog.InfoContext(ctx, "No stored snapshot, starting with default categories")
	default:
		slog.WarnContext(ctx, "Stored snapshot unusable, starting with default categories", "error", err)
	}
	return core.DefaultSnapshot()
}
