package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	DebtID    string          `json:"debt_id"`
	Date      Date            `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

type PaymentInsert struct {
	DebtID string
	Amount decimal.Decimal
	Date   Date
	Note   string
}
