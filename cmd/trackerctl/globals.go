package main

import (
	"context"
	"fmt"
	"time"

	"moneytracker/internal/backend"
	"moneytracker/internal/cli"
	"moneytracker/internal/config"
	"moneytracker/internal/ledger"
	applog "moneytracker/internal/log"
	"moneytracker/internal/storage"
)

// Globals are flags shared by every command. Unset flags fall back to the
// same environment the server reads.
type Globals struct {
	Backend  string        `help:"Snapshot backend (memory, sqlite, jsonfile, postgres)." env:"DATA_BACKEND"`
	DB       string        `name:"db" help:"SQLite database path." env:"SQLITE_DB_PATH"`
	JSONPath string        `name:"json" help:"JSON snapshot path." env:"JSON_SNAPSHOT_PATH"`
	LogLevel string        `name:"log-level" default:"warn" help:"Log level."`
	Timeout  time.Duration `default:"30s" help:"Overall command timeout."`
}

// session is an opened ledger backed by the configured snapshot store.
type session struct {
	store   *ledger.Store
	backend *backend.BackendResult
	logger  *applog.Logger
}

func (g *Globals) config() *config.Config {
	cfg := config.Load()
	if g.Backend != "" {
		cfg.DataBackend = g.Backend
	}
	if g.DB != "" {
		cfg.SQLiteDBPath = g.DB
	}
	if g.JSONPath != "" {
		cfg.JSONSnapshotPath = g.JSONPath
	}
	return cfg
}

func (g *Globals) open(ctx context.Context) (*session, error) {
	logger := cli.SetupLogger(g.LogLevel, applog.ComponentApp)
	cfg := g.config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	be, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.DataBackend, err)
	}
	store := ledger.New(storage.LoadOrDefault(ctx, be.Store), ledger.WithHooks(ledger.PersistTo(be.Store)))
	return &session{store: store, backend: be, logger: logger}, nil
}

// close waits for pending saves, then releases the backend.
func (s *session) close(ctx context.Context) error {
	closeErr := s.store.Close(ctx)
	if err := s.backend.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	return closeErr
}

// withSession runs fn against an opened ledger and always closes it.
func (g *Globals) withSession(fn func(ctx context.Context, s *session) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	s, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, s)
}
