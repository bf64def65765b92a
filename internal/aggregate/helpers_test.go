package aggregate

import (
	"testing"
	"time"

	"schuldenfrei/internal/domain"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(t *testing.T, s string) *domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return &d
}

func debt(id, original, paid, rate string) domain.Debt {
	return domain.Debt{
		ID:             id,
		OriginalAmount: dec(original),
		PaidAmount:     dec(paid),
		MonthlyRate:    dec(rate),
		PlanStatus:     domain.PlanRate,
	}
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}

var refNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
