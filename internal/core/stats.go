package core

// Stats are aggregate totals derived from the full transaction set.
type Stats struct {
	TotalIncome      Money `json:"totalIncome"`
	TotalExpenses    Money `json:"totalExpenses"`
	Balance          Money `json:"balance"`
	TransactionCount int   `json:"transactionCount"`
}

// ComputeStats sums income and expenses in a single pass. TransactionCount
// counts every transaction regardless of type.
func ComputeStats(transactions []Transaction) Stats {
	var s Stats
	for _, t := range transactions {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	s.TransactionCount = len(transactions)
	return s
}
