package receipt

import (
	"strings"
	"time"

	"moneytracker/internal/core"
)

// Normalize turns a candidate into a transaction draft of type t.
//
// The suggested category is matched by name, ignoring case, among the
// categories of type t; otherwise the first category of that type is used.
// A vendor is prefixed to the description as "<vendor> - <description>".
// A missing or unreadable date falls back to today. The draft has no ID or
// CreatedAt; the ledger assigns those.
func Normalize(c Candidate, categories []core.Category, t core.TransactionType, now time.Time) (core.Transaction, error) {
	if !t.IsValid() {
		return core.Transaction{}, core.ErrInvalidType
	}

	amount, err := core.ParseAmount(c.Amount)
	if err != nil {
		return core.Transaction{}, ErrInvalidAmount
	}

	ofType := core.CategoriesOfType(categories, t)
	cat, ok := core.MatchCategoryName(ofType, c.SuggestedCategory)
	if !ok {
		if len(ofType) == 0 {
			return core.Transaction{}, ErrNoCategory
		}
		cat = ofType[0]
	}

	date, err := core.ParseDate(c.Date)
	if err != nil {
		date = core.DateOf(now)
	}

	vendor := strings.TrimSpace(c.Vendor)
	description := strings.TrimSpace(c.Description)
	switch {
	case vendor != "" && description != "":
		description = vendor + " - " + description
	case description == "":
		description = vendor
	}

	return core.Transaction{
		Amount:      amount,
		Description: description,
		Category:    cat.ID,
		Type:        t,
		Date:        date,
		Vendor:      vendor,
	}, nil
}
