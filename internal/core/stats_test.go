package core

import (
	"math/rand"
	"testing"
)

func TestComputeStatsEmpty(t *testing.T) {
	got := ComputeStats(nil)
	if got != (Stats{}) {
		t.Fatalf("ComputeStats(nil) = %+v, want zero", got)
	}
}

func TestComputeStatsScenario(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Amount: Money{Units: 5000}, Type: Income},
		{ID: "2", Amount: Money{Units: 2000}, Type: Expense},
	}
	got := ComputeStats(txs)
	want := Stats{
		TotalIncome:      Money{Units: 5000},
		TotalExpenses:    Money{Units: 2000},
		Balance:          Money{Units: 3000},
		TransactionCount: 2,
	}
	if got != want {
		t.Fatalf("ComputeStats() = %+v, want %+v", got, want)
	}
}

func TestComputeStatsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		txs := make([]Transaction, n)
		for i := range txs {
			typ := Income
			if rng.Intn(2) == 0 {
				typ = Expense
			}
			txs[i] = Transaction{Amount: Money{Units: rng.Int63n(1_000_000)}, Type: typ}
		}
		s := ComputeStats(txs)
		if s.Balance != s.TotalIncome.Sub(s.TotalExpenses) {
			t.Fatalf("round %d: balance %d != %d - %d", round, s.Balance.Units, s.TotalIncome.Units, s.TotalExpenses.Units)
		}
		if s.TransactionCount != n {
			t.Fatalf("round %d: count %d, want %d", round, s.TransactionCount, n)
		}
	}
}
