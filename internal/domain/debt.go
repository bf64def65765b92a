package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlanStatus string

const (
	PlanOpen        PlanStatus = "open"
	PlanNegotiation PlanStatus = "negotiation"
	PlanRate        PlanStatus = "rate"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanOpen, PlanNegotiation, PlanRate:
		return true
	}
	return false
}

type Debt struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Name  string `json:"name"`
	Emoji string `json:"emoji"`

	OriginalAmount decimal.Decimal `json:"original_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	MonthlyRate    decimal.Decimal `json:"monthly_rate"`

	PlanStatus PlanStatus `json:"plan_status"`
	DueDate    *Date      `json:"due_date"`
	Notes      string     `json:"notes"`

	CreditorName    string `json:"creditor_name"`
	CreditorAddress string `json:"creditor_address"`
	CreditorPhone   string `json:"creditor_phone"`
	CreditorEmail   string `json:"creditor_email"`

	BankName string `json:"bank_name"`
	BankIBAN string `json:"bank_iban"`
	BankBIC  string `json:"bank_bic"`
	BankRef  string `json:"bank_ref"`

	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the debt still has an open balance.
func (d Debt) Active() bool {
	return d.PaidAmount.LessThan(d.OriginalAmount)
}

func (d Debt) Remaining() decimal.Decimal {
	return d.OriginalAmount.Sub(d.PaidAmount)
}

type DebtInsert struct {
	Name            string
	Emoji           string
	OriginalAmount  decimal.Decimal
	MonthlyRate     decimal.Decimal
	PlanStatus      PlanStatus
	DueDate         *Date
	Notes           string
	CreditorName    string
	CreditorAddress string
	CreditorPhone   string
	CreditorEmail   string
	BankName        string
	BankIBAN        string
	BankBIC         string
	BankRef         string
}

// DebtUpdate holds a partial update; nil fields are left untouched.
// ClearDueDate removes the due date.
type DebtUpdate struct {
	Name            *string
	Emoji           *string
	MonthlyRate     *decimal.Decimal
	PlanStatus      *PlanStatus
	DueDate         *Date
	ClearDueDate    bool
	Notes           *string
	CreditorName    *string
	CreditorAddress *string
	CreditorPhone   *string
	CreditorEmail   *string
	BankName        *string
	BankIBAN        *string
	BankBIC         *string
	BankRef         *string
}
