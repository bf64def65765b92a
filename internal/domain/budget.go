package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultBudgetCategory = "Sonstiges"

// BudgetEntry is a recurring monthly expense or income.
type BudgetEntry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	CreatedAt time.Time       `json:"created_at"`
}

type BudgetEntryInsert struct {
	Name     string
	Amount   decimal.Decimal
	Category string
}

type BudgetKind string

const (
	BudgetExpense BudgetKind = "expense"
	BudgetIncome  BudgetKind = "income"
)
