package core

import "sort"

// RecentTransactions returns up to n transactions, newest CreatedAt first.
// The input is copied before sorting; ties keep their input order.
func RecentTransactions(transactions []Transaction, n int) []Transaction {
	if n <= 0 {
		return []Transaction{}
	}
	sorted := append([]Transaction(nil), transactions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
