package backend

import (
	"context"
	"path/filepath"
	"testing"

	"moneytracker/internal/config"
	"moneytracker/internal/core"
	"moneytracker/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "jsonfile", JSONSnapshotPath: "/tmp/x.json"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != JSONFileBackend || cfg.JSONSnapshotPath != "/tmp/x.json" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"jsonfile without path", Config{Type: JSONFileBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configs := []Config{
		{Type: MemoryBackend},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "tracker.db")},
		{Type: JSONFileBackend, JSONSnapshotPath: filepath.Join(dir, "tracker.json")},
	}

	for _, cfg := range configs {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			ctx := context.Background()
			res, err := NewFactory(nil).CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer res.Close()

			if err := res.Ping(ctx); err != nil {
				t.Fatalf("Ping: %v", err)
			}
			if got := storage.LoadOrDefault(ctx, res.Store); len(got.Categories) != len(core.DefaultCategories()) {
				t.Fatalf("fresh backend did not fall back to defaults")
			}
			if err := res.Store.Save(ctx, core.DefaultSnapshot()); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if _, err := res.Store.Load(ctx); err != nil {
				t.Fatalf("Load: %v", err)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 4 || got[0] != "sqlite" {
		t.Fatalf("GetBackendTypeStrings() = %v", got)
	}
}
