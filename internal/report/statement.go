// Package report renders ledger statements.
package report

import (
	"time"

	"moneytracker/internal/core"
)

// Statement is the data printed on a PDF statement.
type Statement struct {
	Title        string
	Filter       core.FilterState
	GeneratedAt  time.Time
	Stats        core.Stats
	Breakdown    []core.CategoryAmount
	Transactions []core.Transaction
	Categories   []core.Category
}

// NewStatement selects the transactions matching f. Stats and the expense
// breakdown cover the selected transactions only.
func NewStatement(snap core.Snapshot, f core.FilterState, now time.Time) Statement {
	selected := core.ApplyFilter(snap.Transactions, f, now)
	return Statement{
		Title:        "Money Tracker Statement",
		Filter:       f,
		GeneratedAt:  now,
		Stats:        core.ComputeStats(selected),
		Breakdown:    core.BreakdownByCategory(selected, snap.Categories, core.Expense),
		Transactions: selected,
		Categories:   snap.Categories,
	}
}

// Filename is the suggested download name.
func (s Statement) Filename() string {
	return "statement-" + string(s.Filter.DateRange) + "-" + s.GeneratedAt.Format("20060102") + ".pdf"
}
