package aggregate

import (
	"sort"

	"schuldenfrei/internal/domain"

	"github.com/shopspring/decimal"
)

type MonthSum struct {
	Month  string          `json:"month"` // YYYY-MM
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyPayments sums payments per calendar month, newest month first.
func MonthlyPayments(payments []domain.Payment) []MonthSum {
	sums := map[string]decimal.Decimal{}
	for _, p := range payments {
		key := p.Date.Format("2006-01")
		sums[key] = sums[key].Add(p.Amount)
	}

	out := make([]MonthSum, 0, len(sums))
	for month, amount := range sums {
		out = append(out, MonthSum{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month > out[j].Month
	})
	return out
}

// NewestFirst returns the payments ordered by date, latest first.
func NewestFirst(payments []domain.Payment) []domain.Payment {
	out := make([]domain.Payment, len(payments))
	copy(out, payments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}
