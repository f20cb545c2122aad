package core

import (
	"reflect"
	"testing"
	"time"
)

func TestRecentTransactions(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{ID: "old", CreatedAt: base},
		{ID: "new", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "tie1", CreatedAt: base.Add(time.Hour)},
		{ID: "tie2", CreatedAt: base.Add(time.Hour)},
	}
	before := ids(txs)

	got := ids(RecentTransactions(txs, 3))
	if want := []string{"new", "tie1", "tie2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("RecentTransactions() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(ids(txs), before) {
		t.Fatalf("input was mutated: %v", ids(txs))
	}

	if got := RecentTransactions(txs, 10); len(got) != 4 {
		t.Fatalf("expected all 4 when n exceeds length, got %d", len(got))
	}
	if got := RecentTransactions(txs, 0); len(got) != 0 {
		t.Fatalf("expected empty for n=0, got %d", len(got))
	}
	if got := RecentTransactions(nil, 5); len(got) != 0 {
		t.Fatalf("expected empty for nil input, got %d", len(got))
	}
}
