package ledger

import (
	"context"
	"fmt"
	"time"

	"moneytracker/internal/core"
)

// Commit describes one data-changing transition after it became visible.
type Commit struct {
	Kind          string
	TransactionID string
	Revision      uint64
	Snapshot      core.Snapshot
	At            time.Time
}

// Hook runs after a commit. Hooks run one at a time, in commit order, on
// the store's background goroutine; returned errors are logged only.
type Hook interface {
	AfterCommit(ctx context.Context, c Commit) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, c Commit) error

func (f HookFunc) AfterCommit(ctx context.Context, c Commit) error { return f(ctx, c) }

// SnapshotSaver is the write side of a snapshot store.
type SnapshotSaver interface {
	Save(ctx context.Context, snap core.Snapshot) error
}

// PersistTo returns a hook writing every committed snapshot to saver.
func PersistTo(saver SnapshotSaver) Hook {
	return HookFunc(func(ctx context.Context, c Commit) error {
		if err := saver.Save(ctx, c.Snapshot); err != nil {
			return fmt.Errorf("persist snapshot rev %d: %w", c.Revision, err)
		}
		return nil
	})
}
