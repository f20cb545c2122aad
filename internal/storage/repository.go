package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"moneytracker/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultHistoryLimit is how many previous snapshots SQLite keeps.
const DefaultHistoryLimit = 20

// SQLiteRepository stores the snapshot as one row of a key/value table and
// keeps a bounded history of earlier versions.
type SQLiteRepository struct {
	db           *sql.DB
	historyLimit int
}

// SnapshotVersion is one entry of the snapshot history.
type SnapshotVersion struct {
	ID      int64
	SavedAt time.Time
	Size    int
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection serializes writers; SQLite allows only one anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, historyLimit: DefaultHistoryLimit}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save overwrites the current snapshot and appends it to the history in
// one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, snap core.Snapshot) error {
	body, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SnapshotKey, string(body)); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	if r.historyLimit > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_history (key, value) VALUES (?, ?)`,
			SnapshotKey, string(body)); err != nil {
			return fmt.Errorf("append snapshot history: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM snapshot_history WHERE key = ? AND id NOT IN (
				SELECT id FROM snapshot_history WHERE key = ? ORDER BY id DESC LIMIT ?)`,
			SnapshotKey, SnapshotKey, r.historyLimit); err != nil {
			return fmt.Errorf("prune snapshot history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite",
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"bytes", len(body))
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (core.Snapshot, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE key = ?`, SnapshotKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return DecodeSnapshot([]byte(body))
}

// History lists stored snapshot versions, newest first.
func (r *SQLiteRepository) History(ctx context.Context, limit int) ([]SnapshotVersion, error) {
	if limit <= 0 {
		limit = r.historyLimit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, saved_at, length(value) FROM snapshot_history
		 WHERE key = ? ORDER BY id DESC LIMIT ?`, SnapshotKey, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshot history: %w", err)
	}
	defer rows.Close()

	var out []SnapshotVersion
	for rows.Next() {
		var v SnapshotVersion
		if err := rows.Scan(&v.ID, &v.SavedAt, &v.Size); err != nil {
			return nil, fmt.Errorf("scan snapshot history: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// LoadVersion decodes one snapshot from the history.
func (r *SQLiteRepository) LoadVersion(ctx context.Context, id int64) (core.Snapshot, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_history WHERE key = ? AND id = ?`, SnapshotKey, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot version %d: %w", id, err)
	}
	return DecodeSnapshot([]byte(body))
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
