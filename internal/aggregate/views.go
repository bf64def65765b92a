package aggregate

import (
	"time"

	"schuldenfrei/internal/domain"

	"github.com/shopspring/decimal"
)

// DebtView is a debt together with the figures derived from it.
type DebtView struct {
	domain.Debt
	Remaining   decimal.Decimal `json:"remaining"`
	PercentPaid int64           `json:"percent_paid"`
	Status      Status          `json:"status"`
	StatusLabel string          `json:"status_label"`
	Category    Category        `json:"category"`
}

func Describe(d domain.Debt, now time.Time) DebtView {
	status := DebtStatus(d, now)
	return DebtView{
		Debt:        d,
		Remaining:   d.Remaining(),
		PercentPaid: percentPaid(d.PaidAmount, d.OriginalAmount),
		Status:      status,
		StatusLabel: status.Label(),
		Category:    DebtCategory(d),
	}
}

func DescribeAll(debts []domain.Debt, now time.Time) []DebtView {
	out := make([]DebtView, 0, len(debts))
	for _, d := range debts {
		out = append(out, Describe(d, now))
	}
	return out
}

type ListFilter string

const (
	FilterAll     ListFilter = "all"
	FilterActive  ListFilter = "active"
	FilterUrgent  ListFilter = "urgent"
	FilterDone    ListFilter = "done"
	FilterPending ListFilter = "pending"
)

func ParseListFilter(s string) (ListFilter, bool) {
	switch f := ListFilter(s); f {
	case FilterAll, FilterActive, FilterUrgent, FilterDone, FilterPending:
		return f, true
	case "":
		return FilterAll, true
	}
	return "", false
}

// Matches applies a list filter and an optional category. The category only
// narrows the "all" list; the other filters ignore it.
func (f ListFilter) Matches(v DebtView, category Category) bool {
	switch f {
	case FilterActive:
		return v.Status != StatusDone
	case FilterUrgent:
		return v.Status.Urgent()
	case FilterDone:
		return v.Status == StatusDone
	case FilterPending:
		return v.Status == StatusPending
	}
	return category == "" || v.Category == category
}

func Filter(views []DebtView, f ListFilter, category Category) []DebtView {
	out := make([]DebtView, 0, len(views))
	for _, v := range views {
		if f.Matches(v, category) {
			out = append(out, v)
		}
	}
	return out
}

type FilterCounts struct {
	All       int `json:"all"`
	Active    int `json:"active"`
	Urgent    int `json:"urgent"`
	Done      int `json:"done"`
	Pending   int `json:"pending"`
	Kredit    int `json:"kredit"`
	Ratenkauf int `json:"ratenkauf"`
	Rechnung  int `json:"rechnung"`
}

func CountFilters(views []DebtView) FilterCounts {
	var c FilterCounts
	for _, v := range views {
		c.All++
		if v.Status == StatusDone {
			c.Done++
		} else {
			c.Active++
		}
		if v.Status.Urgent() {
			c.Urgent++
		}
		if v.Status == StatusPending {
			c.Pending++
		}
		switch v.Category {
		case CategoryKredit:
			c.Kredit++
		case CategoryRatenkauf:
			c.Ratenkauf++
		default:
			c.Rechnung++
		}
	}
	return c
}
