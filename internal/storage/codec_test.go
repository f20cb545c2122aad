package storage

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"moneytracker/internal/core"
)

func sampleSnapshot() core.Snapshot {
	created := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	return core.Snapshot{
		Transactions: []core.Transaction{
			{ID: "t1", Amount: core.Money{Units: 5000}, Description: "Salary", Category: "salary", Type: core.Income, Date: core.NewDate(2024, 1, 1), CreatedAt: created},
			{ID: "t2", Amount: core.Money{Units: 2000}, Description: "Warung - Lunch", Category: "food", Type: core.Expense, Date: core.NewDate(2024, 1, 15), CreatedAt: created.Add(time.Hour), Vendor: "Warung", InvoiceURL: "https://storage.googleapis.com/receipts/abc.jpg"},
		},
		Categories: core.DefaultCategories(),
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := sampleSnapshot()
	body, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	out, err := DecodeSnapshot(body)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
}

func TestEncodeSnapshotShape(t *testing.T) {
	body, err := EncodeSnapshot(core.Snapshot{})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(body); got != `{"transactions":[],"categories":[]}` {
		t.Fatalf("empty snapshot encoded as %s", got)
	}

	body, _ = EncodeSnapshot(sampleSnapshot())
	for _, want := range []string{`"amount":5000`, `"date":"2024-01-15"`, `"createdAt":"2024-01-15T09:30:00Z"`, `"vendor":"Warung"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("encoded snapshot missing %s", want)
		}
	}
	if strings.Contains(string(body), `"vendor":""`) {
		t.Error("empty vendor should be omitted")
	}
}

func TestDecodeSnapshotMissingCategories(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"transactions":[{"id":"a","amount":10,"description":"x","type":"expense","category":"food","date":"2024-01-01"}]}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if !reflect.DeepEqual(snap.Categories, core.DefaultCategories()) {
		t.Fatalf("expected default categories, got %d", len(snap.Categories))
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].Amount.Units != 10 {
		t.Fatalf("unexpected transactions: %+v", snap.Transactions)
	}
}

func TestDecodeSnapshotTolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, s core.Snapshot)
	}{
		{
			name:  "missing transactions",
			input: `{"categories":[{"id":"c","name":"C","type":"income"}]}`,
			check: func(t *testing.T, s core.Snapshot) {
				if s.Transactions == nil || len(s.Transactions) != 0 || len(s.Categories) != 1 {
					t.Fatalf("got %+v", s)
				}
			},
		},
		{
			name:  "fractional amount and rfc3339 date",
			input: `{"transactions":[{"id":"a","amount":12.6,"description":"x","type":"income","date":"2024-03-05T00:00:00.000Z","createdAt":"2024-03-05T08:00:00.123Z"}],"categories":[]}`,
			check: func(t *testing.T, s core.Snapshot) {
				tx := s.Transactions[0]
				if tx.Amount.Units != 13 || tx.Date.String() != "2024-03-05" {
					t.Fatalf("got %+v", tx)
				}
			},
		},
		{
			name:  "optional fields absent",
			input: `{"transactions":[{"id":"a","amount":1,"description":"x","type":"expense"}],"categories":[{"id":"c","name":"C","type":"expense"}]}`,
			check: func(t *testing.T, s core.Snapshot) {
				tx := s.Transactions[0]
				if tx.Vendor != "" || tx.InvoiceURL != "" || !tx.Date.IsZero() || s.Categories[0].Icon != "" {
					t.Fatalf("got %+v", s)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeSnapshot([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeSnapshot: %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestDecodeSnapshotRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing id", `{"transactions":[{"amount":1,"description":"x","type":"income"}]}`},
		{"empty id", `{"transactions":[{"id":"","amount":1,"description":"x","type":"income"}]}`},
		{"missing amount", `{"transactions":[{"id":"a","description":"x","type":"income"}]}`},
		{"null amount", `{"transactions":[{"id":"a","amount":null,"description":"x","type":"income"}]}`},
		{"string amount", `{"transactions":[{"id":"a","amount":"5","description":"x","type":"income"}]}`},
		{"negative amount", `{"transactions":[{"id":"a","amount":-5,"description":"x","type":"income"}]}`},
		{"missing description", `{"transactions":[{"id":"a","amount":1,"type":"income"}]}`},
		{"empty description", `{"transactions":[{"id":"a","amount":1,"description":"","type":"income"}]}`},
		{"blank description", `{"transactions":[{"id":"a","amount":1,"description":"  ","type":"income"}]}`},
		{"amount beyond int64", `{"transactions":[{"id":"a","amount":1e30,"description":"x","type":"income"}]}`},
		{"missing type", `{"transactions":[{"id":"a","amount":1,"description":"x"}]}`},
		{"unknown type", `{"transactions":[{"id":"a","amount":1,"description":"x","type":"transfer"}]}`},
		{"bad date", `{"transactions":[{"id":"a","amount":1,"description":"x","type":"income","date":"yesterday"}]}`},
		{"category without name", `{"categories":[{"id":"c","type":"income"}]}`},
		{"category without type", `{"categories":[{"id":"c","name":"C"}]}`},
		{"not json", `moneyTracker`},
		{"null document", `null`},
		{"empty document", ``},
		{"array document", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.input))
			if !errors.Is(err, ErrMalformedSnapshot) {
				t.Fatalf("err = %v, want ErrMalformedSnapshot", err)
			}
		})
	}
}
