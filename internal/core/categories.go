package core

import "strings"

var defaultCategories = []Category{
	// Income
	{ID: "salary", Name: "Salary", Icon: "Briefcase", Color: "bg-emerald-500", Type: Income},
	{ID: "freelance", Name: "Freelance", Icon: "Laptop", Color: "bg-blue-500", Type: Income},
	{ID: "investment", Name: "Investment", Icon: "TrendingUp", Color: "bg-purple-500", Type: Income},
	{ID: "business", Name: "Business", Icon: "Building", Color: "bg-indigo-500", Type: Income},
	{ID: "other-income", Name: "Other Income", Icon: "Plus", Color: "bg-green-500", Type: Income},

	// Expense
	{ID: "food", Name: "Food & Dining", Icon: "Utensils", Color: "bg-orange-500", Type: Expense},
	{ID: "transport", Name: "Transportation", Icon: "Car", Color: "bg-red-500", Type: Expense},
	{ID: "shopping", Name: "Shopping", Icon: "ShoppingBag", Color: "bg-pink-500", Type: Expense},
	{ID: "bills", Name: "Bills & Utilities", Icon: "FileText", Color: "bg-yellow-500", Type: Expense},
	{ID: "entertainment", Name: "Entertainment", Icon: "Gamepad2", Color: "bg-purple-500", Type: Expense},
	{ID: "healthcare", Name: "Healthcare", Icon: "Heart", Color: "bg-red-400", Type: Expense},
	{ID: "education", Name: "Education", Icon: "GraduationCap", Color: "bg-blue-600", Type: Expense},
	{ID: "travel", Name: "Travel", Icon: "Plane", Color: "bg-cyan-500", Type: Expense},
	{ID: "other-expense", Name: "Other Expense", Icon: "Minus", Color: "bg-gray-500", Type: Expense},
}

// DefaultCategories returns a fresh copy of the seed categories.
func DefaultCategories() []Category {
	return append([]Category(nil), defaultCategories...)
}

// DefaultSnapshot is the first-run state: no transactions, seed categories.
func DefaultSnapshot() Snapshot {
	return Snapshot{Transactions: []Transaction{}, Categories: DefaultCategories()}
}

// FindCategory looks a category up by id.
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoriesOfType keeps categories with the given polarity, in order.
func CategoriesOfType(categories []Category, t TransactionType) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// CategoryNames lists display names in registry order.
func CategoryNames(categories []Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// MatchCategoryName finds the first category whose name equals name,
// ignoring case and surrounding whitespace.
func MatchCategoryName(categories []Category, name string) (Category, bool) {
	want := normalizeName(name)
	if want == "" {
		return Category{}, false
	}
	for _, c := range categories {
		if normalizeName(c.Name) == want {
			return c, true
		}
	}
	return Category{}, false
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
