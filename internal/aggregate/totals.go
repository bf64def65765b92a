package aggregate

import (
	"sort"

	"schuldenfrei/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

type Totals struct {
	OriginalTotal decimal.Decimal `json:"original_total"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
	Remaining     decimal.Decimal `json:"remaining"`
	MonthlyTotal  decimal.Decimal `json:"monthly_total"`
	PercentPaid   int64           `json:"percent_paid"`
	DebtCount     int             `json:"debt_count"`
	ActiveCount   int             `json:"active_count"`
	DoneCount     int             `json:"done_count"`
	NextDue       *domain.Debt    `json:"next_due"`
}

// ComputeTotals sums up a set of debts.
//
// Amounts are not clamped: an overpaid debt yields a negative remaining balance
// and a percentage above 100. NextDue is a copy of the active debt with the
// earliest due date; debts sharing a due date keep their input order.
func ComputeTotals(debts []domain.Debt) Totals {
	t := Totals{
		OriginalTotal: decimal.Zero,
		PaidTotal:     decimal.Zero,
		MonthlyTotal:  decimal.Zero,
		DebtCount:     len(debts),
	}

	var dated []domain.Debt
	for _, d := range debts {
		t.OriginalTotal = t.OriginalTotal.Add(d.OriginalAmount)
		t.PaidTotal = t.PaidTotal.Add(d.PaidAmount)

		if !d.Active() {
			continue
		}
		t.ActiveCount++
		t.MonthlyTotal = t.MonthlyTotal.Add(d.MonthlyRate)
		if d.DueDate != nil {
			dated = append(dated, d)
		}
	}

	t.Remaining = t.OriginalTotal.Sub(t.PaidTotal)
	t.DoneCount = t.DebtCount - t.ActiveCount
	t.PercentPaid = percentPaid(t.PaidTotal, t.OriginalTotal)

	if len(dated) > 0 {
		sort.SliceStable(dated, func(i, j int) bool {
			return dated[i].DueDate.Before(dated[j].DueDate.Time)
		})
		next := dated[0]
		t.NextDue = &next
	}

	return t
}

// percentPaid rounds half up, the way a browser's Math.round does.
func percentPaid(paid, original decimal.Decimal) int64 {
	if original.IsZero() {
		return 100
	}
	return paid.Mul(hundred).Div(original).Add(half).Floor().IntPart()
}
