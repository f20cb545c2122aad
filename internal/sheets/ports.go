package sheets

import (
	"context"
	"sort"

	"moneytracker/internal/core"
)

// Ports for outbound adapters.
type (
	// Mirror receives a full copy of the ledger. Implementations overwrite
	// whatever they held before, so replaying the same snapshot is harmless.
	Mirror interface {
		ReplaceTransactions(ctx context.Context, transactions []core.Transaction, categories []core.Category) error
	}

	// RowReader reads back the mirrored rows.
	RowReader interface {
		ReadRows(ctx context.Context) ([]Row, error)
	}

	// Row is one mirrored transaction with the category resolved to its name.
	Row struct {
		Date        string
		Type        string
		Category    string
		Description string
		Vendor      string
		Amount      int64
		ID          string
	}
)

// Header is the first row written to the mirror sheet.
var Header = []string{"Date", "Type", "Category", "Description", "Vendor", "Amount", "ID"}

// BuildRows orders transactions newest first by attributed date and resolves
// category names. Unknown categories keep their raw id.
func BuildRows(transactions []core.Transaction, categories []core.Category) []Row {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		if _, ok := names[c.ID]; !ok {
			names[c.ID] = c.Name
		}
	}
	sorted := append([]core.Transaction(nil), transactions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date.Time) {
			return sorted[i].Date.After(sorted[j].Date.Time)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	rows := make([]Row, 0, len(sorted))
	for _, tx := range sorted {
		cat, ok := names[tx.Category]
		if !ok {
			cat = tx.Category
		}
		rows = append(rows, Row{
			Date:        tx.Date.String(),
			Type:        string(tx.Type),
			Category:    cat,
			Description: tx.Description,
			Vendor:      tx.Vendor,
			Amount:      tx.Amount.Units,
			ID:          tx.ID,
		})
	}
	return rows
}
