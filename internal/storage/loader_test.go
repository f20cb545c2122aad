package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"moneytracker/internal/core"
)

type loaderFunc func(ctx context.Context) (core.Snapshot, error)

func (f loaderFunc) Load(ctx context.Context) (core.Snapshot, error) { return f(ctx) }

func TestLoadOrDefault(t *testing.T) {
	stored := sampleSnapshot()

	tests := []struct {
		name   string
		loader loaderFunc
		want   core.Snapshot
	}{
		{
			name:   "stored snapshot",
			loader: func(context.Context) (core.Snapshot, error) { return stored, nil },
			want:   stored,
		},
		{
			name:   "absent",
			loader: func(context.Context) (core.Snapshot, error) { return core.Snapshot{}, ErrNoSnapshot },
			want:   core.DefaultSnapshot(),
		},
		{
			name: "malformed",
			loader: func(context.Context) (core.Snapshot, error) {
				return DecodeSnapshot([]byte(`{"transactions":[{"id":"x"}]}`))
			},
			want: core.DefaultSnapshot(),
		},
		{
			name:   "backend failure",
			loader: func(context.Context) (core.Snapshot, error) { return core.Snapshot{}, errors.New("connection refused") },
			want:   core.DefaultSnapshot(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadOrDefault(context.Background(), tt.loader)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("LoadOrDefault() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
