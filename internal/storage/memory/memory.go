// Package memory is an in-process snapshot store. It keeps the encoded
// bytes rather than the structs so Save/Load exercise the same codec as
// the durable backends.
package memory

import (
	"context"
	"sync"

	"moneytracker/internal/core"
	"moneytracker/internal/storage"
)

type Store struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// NewFromBytes seeds the store with a raw document, e.g. an export from
// another backend. The bytes are not validated until Load.
func NewFromBytes(raw []byte) *Store {
	s := New()
	s.data[storage.SnapshotKey] = append([]byte(nil), raw...)
	return s
}

func (s *Store) Save(_ context.Context, snap core.Snapshot) error {
	body, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[storage.SnapshotKey] = body
	s.saves++
	return nil
}

func (s *Store) Load(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	body, ok := s.data[storage.SnapshotKey]
	s.mu.Unlock()
	if !ok {
		return core.Snapshot{}, storage.ErrNoSnapshot
	}
	return storage.DecodeSnapshot(body)
}

// Raw returns a copy of the stored document.
func (s *Store) Raw() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.data[storage.SnapshotKey]
	return append([]byte(nil), body...), ok
}

// Saves counts successful Save calls.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
