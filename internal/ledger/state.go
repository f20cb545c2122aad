// Package ledger owns the mutable transaction state. Every change goes
// through a Command applied by the pure Reduce function; Store serializes
// those commands and runs post-commit hooks.
package ledger

import "moneytracker/internal/core"

// State is the full in-memory model. Stats always equals
// core.ComputeStats(Transactions).
type State struct {
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
	Filter       core.FilterState   `json:"filter"`
	Stats        core.Stats         `json:"stats"`
}

// NewState builds the initial state from a persisted snapshot with the
// default filter.
func NewState(snap core.Snapshot) State {
	snap = snap.Clone()
	return State{
		Transactions: snap.Transactions,
		Categories:   snap.Categories,
		Filter:       core.DefaultFilter(),
		Stats:        core.ComputeStats(snap.Transactions),
	}
}

// Snapshot returns the persisted part of the state as a deep copy.
func (s State) Snapshot() core.Snapshot {
	return core.Snapshot{Transactions: s.Transactions, Categories: s.Categories}.Clone()
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	snap := s.Snapshot()
	s.Transactions = snap.Transactions
	s.Categories = snap.Categories
	return s
}

func (s State) indexOf(id string) int {
	for i, t := range s.Transactions {
		if t.ID == id {
			return i
		}
	}
	return -1
}
