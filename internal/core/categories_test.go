package core

import "testing"

func TestDefaultCategoriesIsACopy(t *testing.T) {
	a := DefaultCategories()
	a[0].Name = "changed"
	if DefaultCategories()[0].Name == "changed" {
		t.Fatal("DefaultCategories leaked its backing array")
	}
	if len(CategoriesOfType(a, Income)) != 5 || len(CategoriesOfType(a, Expense)) != 9 {
		t.Fatalf("unexpected seed split")
	}
}

func TestMatchCategoryName(t *testing.T) {
	cats := DefaultCategories()
	tests := []struct {
		in     string
		wantID string
		ok     bool
	}{
		{"Food & Dining", "food", true},
		{"  food & dining ", "food", true},
		{"TRAVEL", "travel", true},
		{"Groceries", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := MatchCategoryName(cats, tt.in)
		if ok != tt.ok || got.ID != tt.wantID {
			t.Errorf("MatchCategoryName(%q) = %q,%v want %q,%v", tt.in, got.ID, ok, tt.wantID, tt.ok)
		}
	}
}

func TestFindCategory(t *testing.T) {
	if c, ok := FindCategory(DefaultCategories(), "bills"); !ok || c.Type != Expense {
		t.Fatalf("FindCategory(bills) = %+v, %v", c, ok)
	}
	if _, ok := FindCategory(DefaultCategories(), "nope"); ok {
		t.Fatal("expected miss")
	}
}
