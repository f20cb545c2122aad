package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"

	// CategoryAll disables the category predicate.
	CategoryAll = "all"
)

type (
	TypeFilter string

	// FilterState is an ephemeral query over the transaction list.
	FilterState struct {
		Type       TypeFilter `json:"type"`
		Category   string     `json:"category"`
		DateRange  DateRange  `json:"dateRange"`
		SearchTerm string     `json:"searchTerm"`
	}

	// FilterPatch carries the fields to overwrite; nil fields are left alone.
	FilterPatch struct {
		Type       *TypeFilter `json:"type,omitempty"`
		Category   *string     `json:"category,omitempty"`
		DateRange  *DateRange  `json:"dateRange,omitempty"`
		SearchTerm *string     `json:"searchTerm,omitempty"`
	}
)

var (
	ErrInvalidTypeFilter = errors.New("invalid type filter")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// DefaultFilter matches every transaction.
func DefaultFilter() FilterState {
	return FilterState{
		Type:      TypeAll,
		Category:  CategoryAll,
		DateRange: RangeAll,
	}
}

func (t TypeFilter) IsValid() bool {
	switch t {
	case TypeAll, TypeIncome, TypeExpense:
		return true
	default:
		return false
	}
}

func (f FilterState) Validate() error {
	if !f.Type.IsValid() {
		return ErrInvalidTypeFilter
	}
	if !f.DateRange.IsValid() {
		return ErrInvalidDateRange
	}
	return nil
}

// Merge shallow-merges p into f.
func (f FilterState) Merge(p FilterPatch) FilterState {
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.DateRange != nil {
		f.DateRange = *p.DateRange
	}
	if p.SearchTerm != nil {
		f.SearchTerm = *p.SearchTerm
	}
	return f
}

// IsEmpty reports whether the patch changes nothing.
func (p FilterPatch) IsEmpty() bool {
	return p.Type == nil && p.Category == nil && p.DateRange == nil && p.SearchTerm == nil
}

// ApplyFilter returns the transactions matching every predicate of f, in
// their original order. now is read once for the whole query.
func ApplyFilter(transactions []Transaction, f FilterState, now time.Time) []Transaction {
	var (
		start   Date
		bounded bool
	)
	if starter, err := GetRangeStarter(f.DateRange); err == nil {
		start = starter.Start(now)
		bounded = true
	}
	term := strings.ToLower(f.SearchTerm)

	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.Type != "" && f.Type != TypeAll && string(t.Type) != string(f.Type) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && t.Category != f.Category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(t.Description), term) {
			continue
		}
		if bounded && t.Date.Before(start.Time) {
			continue
		}
		out = append(out, t)
	}
	return out
}
