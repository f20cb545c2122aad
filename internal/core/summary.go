package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// MonthOverview is a compact income/expense summary for a year+month.
type MonthOverview struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"` // 1-12
	Income   Money `json:"income"`
	Expenses Money `json:"expenses"`
	Net      Money `json:"net"`
}

// BreakdownByCategory sums amounts of one transaction type per category
// name. Transactions whose category is not registered are left out.
// Largest first; equal amounts are ordered by name.
func BreakdownByCategory(transactions []Transaction, categories []Category, t TransactionType) []CategoryAmount {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		if _, seen := names[c.ID]; !seen {
			names[c.ID] = c.Name
		}
	}

	totals := map[string]Money{}
	for _, tx := range transactions {
		if tx.Type != t {
			continue
		}
		name, ok := names[tx.Category]
		if !ok {
			continue
		}
		totals[name] = totals[name].Add(tx.Amount)
	}

	out := make([]CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		out = append(out, CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Units != out[j].Amount.Units {
			return out[i].Amount.Units > out[j].Amount.Units
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MonthlyTrend groups transactions by the year and month of their
// attributed date, oldest month first.
func MonthlyTrend(transactions []Transaction) []MonthOverview {
	type key struct{ year, month int }
	byMonth := map[key]*MonthOverview{}
	for _, tx := range transactions {
		if tx.Date.IsZero() {
			continue
		}
		k := key{tx.Date.Year(), int(tx.Date.Month())}
		ov, ok := byMonth[k]
		if !ok {
			ov = &MonthOverview{Year: k.year, Month: k.month}
			byMonth[k] = ov
		}
		switch tx.Type {
		case Income:
			ov.Income = ov.Income.Add(tx.Amount)
		case Expense:
			ov.Expenses = ov.Expenses.Add(tx.Amount)
		}
	}

	out := make([]MonthOverview, 0, len(byMonth))
	for _, ov := range byMonth {
		ov.Net = ov.Income.Sub(ov.Expenses)
		out = append(out, *ov)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
