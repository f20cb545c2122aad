// Package postgres stores the snapshot as a JSONB row keyed by the
// snapshot key.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moneytracker/internal/core"
	"moneytracker/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    body       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Store struct {
	pool *pgxpool.Pool
}

// Open connects to databaseURL and makes sure the snapshots table exists.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	slog.InfoContext(ctx, "Connected to Postgres snapshot store",
		"host", cfg.ConnConfig.Host,
		"database", cfg.ConnConfig.Database)
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Save(ctx context.Context, snap core.Snapshot) error {
	body, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO snapshots (key, body, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		storage.SnapshotKey, string(body))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (core.Snapshot, error) {
	var body string
	err := s.pool.QueryRow(ctx,
		`SELECT body::text FROM snapshots WHERE key = $1`, storage.SnapshotKey).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Snapshot{}, storage.ErrNoSnapshot
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return storage.DecodeSnapshot([]byte(body))
}
