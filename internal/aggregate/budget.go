package aggregate

import (
	"sort"
	"strings"

	"schuldenfrei/internal/domain"

	"github.com/shopspring/decimal"
)

type CategorySum struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type BudgetSummary struct {
	MonthlyDebt        decimal.Decimal      `json:"monthly_debt"`
	MonthlyExpenses    decimal.Decimal      `json:"monthly_expenses"`
	MonthlyIncomes     decimal.Decimal      `json:"monthly_incomes"`
	Net                decimal.Decimal      `json:"net"`
	ExpensesByCategory []CategorySum        `json:"expenses_by_category"`
	IncomesByCategory  []CategorySum        `json:"incomes_by_category"`
	Expenses           []domain.BudgetEntry `json:"expenses"`
	Incomes            []domain.BudgetEntry `json:"incomes"`
}

// Budget combines the monthly debt rates with recurring expenses and incomes.
// Net is what is left after rates and expenses and may be negative.
func Budget(totals Totals, expenses, incomes []domain.BudgetEntry) BudgetSummary {
	s := BudgetSummary{
		MonthlyDebt:        totals.MonthlyTotal,
		MonthlyExpenses:    sumEntries(expenses),
		MonthlyIncomes:     sumEntries(incomes),
		ExpensesByCategory: byCategory(expenses),
		IncomesByCategory:  byCategory(incomes),
		Expenses:           sortedByAmount(expenses),
		Incomes:            sortedByAmount(incomes),
	}
	s.Net = s.MonthlyIncomes.Sub(s.MonthlyDebt).Sub(s.MonthlyExpenses)
	return s
}

func BudgetCategory(raw string) string {
	if c := strings.TrimSpace(raw); c != "" {
		return c
	}
	return domain.DefaultBudgetCategory
}

func sumEntries(entries []domain.BudgetEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

func byCategory(entries []domain.BudgetEntry) []CategorySum {
	index := map[string]int{}
	var out []CategorySum
	for _, e := range entries {
		key := BudgetCategory(e.Category)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, CategorySum{Category: key, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

func sortedByAmount(entries []domain.BudgetEntry) []domain.BudgetEntry {
	out := make([]domain.BudgetEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}
