// Package memory provides an in-process sheets mirror for tests and for
// running the worker without Google credentials.
package memory

import (
	"context"
	"sync"

	"moneytracker/internal/core"
	ports "moneytracker/internal/sheets"
)

type Mirror struct {
	mu       sync.Mutex
	rows     []ports.Row
	replaces int
	err      error
}

var (
	_ ports.Mirror    = (*Mirror)(nil)
	_ ports.RowReader = (*Mirror)(nil)
)

func New() *Mirror {
	return &Mirror{}
}

// FailWith makes subsequent ReplaceTransactions calls return err. Pass nil to
// recover.
func (m *Mirror) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Mirror) ReplaceTransactions(_ context.Context, transactions []core.Transaction, categories []core.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = ports.BuildRows(transactions, categories)
	m.replaces++
	return nil
}

func (m *Mirror) ReadRows(_ context.Context) ([]ports.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Row{}, m.rows...), nil
}

// Replaces returns how many successful replacements happened.
func (m *Mirror) Replaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaces
}
