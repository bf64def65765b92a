package aggregate

import (
	"testing"

	"schuldenfrei/internal/domain"
)

func entry(name, amount, category string) domain.BudgetEntry {
	return domain.BudgetEntry{Name: name, Amount: dec(amount), Category: category}
}

func TestBudget(t *testing.T) {
	totals := ComputeTotals([]domain.Debt{
		debt("a", "1000", "0", "150"),
		debt("b", "500", "500", "80"),
	})
	expenses := []domain.BudgetEntry{
		entry("Netflix", "13", "Abo"),
		entry("Miete", "800", "Wohnen"),
		entry("Spotify", "11", "Abo"),
		entry("Sonstiges", "20", "  "),
	}
	incomes := []domain.BudgetEntry{
		entry("Gehalt", "2400", "Gehalt"),
		entry("Nebenjob", "300", ""),
	}

	got := Budget(totals, expenses, incomes)

	assertDec(t, "monthly debt", got.MonthlyDebt, "150")
	assertDec(t, "expenses", got.MonthlyExpenses, "844")
	assertDec(t, "incomes", got.MonthlyIncomes, "2700")
	assertDec(t, "net", got.Net, "1706")

	wantCats := []struct {
		name   string
		amount string
	}{
		{"Wohnen", "800"},
		{"Abo", "24"},
		{"Sonstiges", "20"},
	}
	if len(got.ExpensesByCategory) != len(wantCats) {
		t.Fatalf("expected %d categories, got %+v", len(wantCats), got.ExpensesByCategory)
	}
	for i, want := range wantCats {
		if got.ExpensesByCategory[i].Category != want.name {
			t.Errorf("category %d: expected %s, got %s", i, want.name, got.ExpensesByCategory[i].Category)
		}
		assertDec(t, want.name, got.ExpensesByCategory[i].Amount, want.amount)
	}

	if got.Expenses[0].Name != "Miete" || got.Expenses[len(got.Expenses)-1].Name != "Spotify" {
		t.Errorf("expenses not sorted by amount: %+v", got.Expenses)
	}
	if expenses[0].Name != "Netflix" {
		t.Error("input slice was reordered")
	}
	if got.IncomesByCategory[1].Category != domain.DefaultBudgetCategory {
		t.Errorf("expected blank income category to fall back, got %+v", got.IncomesByCategory)
	}
}

func TestBudget_NegativeNet(t *testing.T) {
	totals := ComputeTotals([]domain.Debt{debt("a", "1000", "0", "300")})
	got := Budget(totals, []domain.BudgetEntry{entry("Miete", "900", "Wohnen")}, []domain.BudgetEntry{entry("Gehalt", "1000", "")})

	assertDec(t, "net", got.Net, "-200")
}
