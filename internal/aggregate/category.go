package aggregate

import "schuldenfrei/internal/domain"

type Category string

const (
	CategoryKredit    Category = "Kredit"
	CategoryRatenkauf Category = "Ratenkauf"
	CategoryRechnung  Category = "Rechnung"
)

type categoryRule struct {
	category Category
	matches  func(d domain.Debt) bool
}

// categoryRules are evaluated top to bottom; the first match wins and
// Rechnung is the fallback.
var categoryRules = []categoryRule{
	{category: CategoryKredit, matches: hasBankDetails},
	{category: CategoryRatenkauf, matches: isInstallmentPurchase},
}

// DebtCategory guesses where a debt comes from. The result is derived from the
// debt's fields every time and is never stored.
func DebtCategory(d domain.Debt) Category {
	for _, rule := range categoryRules {
		if rule.matches(d) {
			return rule.category
		}
	}
	return CategoryRechnung
}

func hasBankDetails(d domain.Debt) bool {
	return d.BankIBAN != "" || d.BankBIC != "" || d.BankName != ""
}

func isInstallmentPurchase(d domain.Debt) bool {
	hasCreditor := d.CreditorName != "" || d.CreditorAddress != ""
	return hasCreditor && d.MonthlyRate.IsPositive()
}

func ParseCategory(s string) (Category, bool) {
	switch s {
	case "kredit", string(CategoryKredit):
		return CategoryKredit, true
	case "ratenkauf", string(CategoryRatenkauf):
		return CategoryRatenkauf, true
	case "rechnung", string(CategoryRechnung):
		return CategoryRechnung, true
	}
	return "", false
}
