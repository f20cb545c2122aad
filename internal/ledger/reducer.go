package ledger

import "moneytracker/internal/core"

// Reduce applies cmd to s and returns the next state. It is pure: slices of
// s are never written to, ids are never generated and nothing is validated.
// Update and delete of an unknown id leave the transactions unchanged.
func Reduce(s State, cmd Command) State {
	switch c := cmd.(type) {
	case AddTransaction:
		txs := make([]core.Transaction, 0, len(s.Transactions)+1)
		txs = append(txs, s.Transactions...)
		s.Transactions = append(txs, c.Transaction)
		s.Stats = core.ComputeStats(s.Transactions)

	case UpdateTransaction:
		if i := s.indexOf(c.Transaction.ID); i >= 0 {
			txs := append([]core.Transaction(nil), s.Transactions...)
			txs[i] = c.Transaction
			s.Transactions = txs
		}
		s.Stats = core.ComputeStats(s.Transactions)

	case DeleteTransaction:
		if i := s.indexOf(c.ID); i >= 0 {
			txs := make([]core.Transaction, 0, len(s.Transactions)-1)
			txs = append(txs, s.Transactions[:i]...)
			s.Transactions = append(txs, s.Transactions[i+1:]...)
		}
		s.Stats = core.ComputeStats(s.Transactions)

	case SetFilter:
		s.Filter = s.Filter.Merge(c.Patch)

	case LoadSnapshot:
		snap := c.Snapshot.Clone()
		s.Transactions = snap.Transactions
		s.Categories = snap.Categories
		s.Stats = core.ComputeStats(s.Transactions)

	case AddCategory:
		cats := make([]core.Category, 0, len(s.Categories)+1)
		cats = append(cats, s.Categories...)
		s.Categories = append(cats, c.Category)
	}
	return s
}
