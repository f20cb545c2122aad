package worker

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"moneytracker/internal/amqp"
	"moneytracker/internal/core"
	"moneytracker/internal/sheets"
	"moneytracker/internal/storage"
)

// MirrorWorker copies the persisted ledger into a sheets mirror whenever a
// change event arrives. Every event triggers a full reload, so lost or
// reordered events only delay the mirror, never corrupt it.
type MirrorWorker struct {
	store  storage.SnapshotStore
	mirror sheets.Mirror

	mu           sync.Mutex
	lastDigest   []byte
	lastRevision uint64
}

func NewMirrorWorker(store storage.SnapshotStore, mirror sheets.Mirror) *MirrorWorker {
	return &MirrorWorker{store: store, mirror: mirror}
}

// Handle processes a single change event from AMQP.
func (w *MirrorWorker) Handle(ctx context.Context, ev *amqp.ChangeEvent) error {
	slog.InfoContext(ctx, "Processing change event",
		"kind", ev.Kind,
		"transaction_id", ev.TransactionID,
		"revision", ev.Revision)

	synced, err := w.sync(ctx)
	if err != nil {
		return fmt.Errorf("mirror revision %d: %w", ev.Revision, err)
	}

	w.mu.Lock()
	if ev.Revision > w.lastRevision {
		w.lastRevision = ev.Revision
	}
	w.mu.Unlock()

	if !synced {
		slog.DebugContext(ctx, "Snapshot unchanged, mirror left alone", "revision", ev.Revision)
	}
	return nil
}

// StartupSync mirrors the current snapshot once, so changes made while the
// worker was down are not missed.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	synced, err := w.sync(ctx)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "replaced", synced)
	return nil
}

// LastRevision returns the highest revision seen so far.
func (w *MirrorWorker) LastRevision() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRevision
}

// sync loads the snapshot and replaces the mirror. It reports false when the
// snapshot is identical to the last one mirrored.
func (w *MirrorWorker) sync(ctx context.Context) (bool, error) {
	snap, err := w.store.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNoSnapshot):
		snap = core.DefaultSnapshot()
	case err != nil:
		return false, fmt.Errorf("load snapshot: %w", err)
	}

	encoded, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}
	sum := sha256.Sum256(encoded)

	w.mu.Lock()
	unchanged := w.lastDigest != nil && bytes.Equal(w.lastDigest, sum[:])
	w.mu.Unlock()
	if unchanged {
		return false, nil
	}

	if err := w.mirror.ReplaceTransactions(ctx, snap.Transactions, snap.Categories); err != nil {
		return false, fmt.Errorf("replace transactions: %w", err)
	}

	w.mu.Lock()
	w.lastDigest = sum[:]
	w.mu.Unlock()

	slog.InfoContext(ctx, "Mirror updated", "transactions", len(snap.Transactions))
	return true, nil
}
