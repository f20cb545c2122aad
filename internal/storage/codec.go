package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"moneytracker/internal/core"
)

// Wire types use pointers for required fields so a missing field can be
// told apart from a zero value.
type (
	wireSnapshot struct {
		Transactions *[]wireTransaction `json:"transactions"`
		Categories   *[]wireCategory    `json:"categories"`
	}

	wireTransaction struct {
		ID          *string               `json:"id"`
		Amount      *core.Money           `json:"amount"`
		Description *string               `json:"description"`
		Category    string                `json:"category"`
		Type        *core.TransactionType `json:"type"`
		Date        core.Date             `json:"date"`
		CreatedAt   time.Time             `json:"createdAt"`
		Vendor      string                `json:"vendor"`
		InvoiceURL  string                `json:"invoiceUrl"`
	}

	wireCategory struct {
		ID    *string               `json:"id"`
		Name  *string               `json:"name"`
		Icon  string                `json:"icon"`
		Color string                `json:"color"`
		Type  *core.TransactionType `json:"type"`
	}
)

// EncodeSnapshot serializes snap in the persisted JSON shape. Nil slices
// are written as empty arrays.
func EncodeSnapshot(snap core.Snapshot) ([]byte, error) {
	b, err := json.Marshal(snap.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses a persisted snapshot. Records missing a required
// field are rejected with ErrMalformedSnapshot. A missing categories field
// yields the default categories; a missing transactions field yields none.
func DecodeSnapshot(data []byte) (core.Snapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return core.Snapshot{}, fmt.Errorf("%w: empty document", ErrMalformedSnapshot)
	}

	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	snap := core.Snapshot{Transactions: []core.Transaction{}}
	if w.Transactions != nil {
		for i, wt := range *w.Transactions {
			t, err := wt.toCore()
			if err != nil {
				return core.Snapshot{}, fmt.Errorf("%w: transaction %d: %v", ErrMalformedSnapshot, i, err)
			}
			snap.Transactions = append(snap.Transactions, t)
		}
	}

	if w.Categories == nil {
		snap.Categories = core.DefaultCategories()
		return snap, nil
	}
	snap.Categories = make([]core.Category, 0, len(*w.Categories))
	for i, wc := range *w.Categories {
		c, err := wc.toCore()
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: category %d: %v", ErrMalformedSnapshot, i, err)
		}
		snap.Categories = append(snap.Categories, c)
	}
	return snap, nil
}

func (w wireTransaction) toCore() (core.Transaction, error) {
	switch {
	case w.ID == nil || *w.ID == "":
		return core.Transaction{}, fmt.Errorf("missing id")
	case w.Amount == nil:
		return core.Transaction{}, fmt.Errorf("missing amount")
	case w.Amount.Units < 0:
		return core.Transaction{}, core.ErrInvalidAmount
	case w.Description == nil:
		return core.Transaction{}, fmt.Errorf("missing description")
	case strings.TrimSpace(*w.Description) == "":
		return core.Transaction{}, core.ErrEmptyDescription
	case w.Type == nil:
		return core.Transaction{}, fmt.Errorf("missing type")
	case !w.Type.IsValid():
		return core.Transaction{}, fmt.Errorf("%w %q", core.ErrInvalidType, *w.Type)
	}
	return core.Transaction{
		ID:          *w.ID,
		Amount:      *w.Amount,
		Description: *w.Description,
		Category:    w.Category,
		Type:        *w.Type,
		Date:        w.Date,
		CreatedAt:   w.CreatedAt,
		Vendor:      w.Vendor,
		InvoiceURL:  w.InvoiceURL,
	}, nil
}

func (w wireCategory) toCore() (core.Category, error) {
	switch {
	case w.ID == nil || *w.ID == "":
		return core.Category{}, fmt.Errorf("missing id")
	case w.Name == nil:
		return core.Category{}, fmt.Errorf("missing name")
	case w.Type == nil || !w.Type.IsValid():
		return core.Category{}, fmt.Errorf("missing or invalid type")
	}
	return core.Category{
		ID:    *w.ID,
		Name:  *w.Name,
		Icon:  w.Icon,
		Color: w.Color,
		Type:  *w.Type,
	}, nil
}
