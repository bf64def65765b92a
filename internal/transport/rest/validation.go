package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"schuldenfrei/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	maxTextLen  = 500
	maxNameLen  = 200
	maxEmojiLen = 10
	defaultIcon = "📄"
)

var (
	minAmount = decimal.RequireFromString("0.01")
	maxAmount = decimal.NewFromInt(99_999_999)

	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// decodeJSON accepts an empty body as an empty object.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return &ValidationError{Field: "body", Message: "Ungültiges JSON."}
	}
	return nil
}

// sanitize trims and cuts to max runes.
func sanitize(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func sanitizePtr(s *string, max int) *string {
	if s == nil {
		return nil
	}
	v := sanitize(*s, max)
	return &v
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseDay(field, s, msg string) (*domain.Date, error) {
	if s == "" {
		return nil, nil
	}
	if !datePattern.MatchString(s) {
		return nil, &ValidationError{Field: field, Message: msg}
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: msg}
	}
	return &d, nil
}

func inRange(d, min, max decimal.Decimal) bool {
	return !d.LessThan(min) && !d.GreaterThan(max)
}

type debtRequest struct {
	Name            *string          `json:"name"`
	Emoji           *string          `json:"emoji"`
	OriginalAmount  *decimal.Decimal `json:"original_amount"`
	MonthlyRate     *decimal.Decimal `json:"monthly_rate"`
	PlanStatus      *string          `json:"plan_status"`
	DueDate         *string          `json:"due_date"`
	Notes           *string          `json:"notes"`
	CreditorName    *string          `json:"creditor_name"`
	CreditorAddress *string          `json:"creditor_address"`
	CreditorPhone   *string          `json:"creditor_phone"`
	CreditorEmail   *string          `json:"creditor_email"`
	BankName        *string          `json:"bank_name"`
	BankIBAN        *string          `json:"bank_iban"`
	BankBIC         *string          `json:"bank_bic"`
	BankRef         *string          `json:"bank_ref"`
}

func (req *debtRequest) validateCommon() error {
	if req.Emoji != nil && utf8.RuneCountInString(*req.Emoji) > maxEmojiLen {
		return &ValidationError{Field: "emoji", Message: "Emoji ist zu lang."}
	}
	if req.MonthlyRate != nil && !inRange(*req.MonthlyRate, decimal.Zero, maxAmount) {
		return &ValidationError{Field: "monthly_rate", Message: "Rate muss zwischen 0 und 99.999.999 liegen."}
	}
	if req.PlanStatus != nil && *req.PlanStatus != "" && !domain.PlanStatus(*req.PlanStatus).Valid() {
		return &ValidationError{Field: "plan_status", Message: "Ungültiger Status."}
	}
	return nil
}

func ValidateDebtCreate(r *http.Request) (domain.DebtInsert, error) {
	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.DebtInsert{}, err
	}

	name := strings.TrimSpace(value(req.Name))
	if name == "" {
		return domain.DebtInsert{}, &ValidationError{Field: "name", Message: "Name ist erforderlich."}
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return domain.DebtInsert{}, &ValidationError{Field: "name", Message: "Name ist zu lang (max. 200 Zeichen)."}
	}
	if req.OriginalAmount == nil || !inRange(*req.OriginalAmount, minAmount, maxAmount) {
		return domain.DebtInsert{}, &ValidationError{Field: "original_amount", Message: "Gesamtbetrag muss zwischen 0,01 und 99.999.999 liegen."}
	}
	if err := req.validateCommon(); err != nil {
		return domain.DebtInsert{}, err
	}

	due, err := parseDay("due_date", value(req.DueDate), "Ungültiges Datumsformat (YYYY-MM-DD erwartet).")
	if err != nil {
		return domain.DebtInsert{}, err
	}

	in := domain.DebtInsert{
		Name:            name,
		Emoji:           sanitize(value(req.Emoji), maxEmojiLen),
		OriginalAmount:  *req.OriginalAmount,
		MonthlyRate:     decimal.Zero,
		PlanStatus:      domain.PlanStatus(value(req.PlanStatus)),
		DueDate:         due,
		Notes:           sanitize(value(req.Notes), maxTextLen),
		CreditorName:    sanitize(value(req.CreditorName), maxTextLen),
		CreditorAddress: sanitize(value(req.CreditorAddress), maxTextLen),
		CreditorPhone:   sanitize(value(req.CreditorPhone), 50),
		CreditorEmail:   sanitize(value(req.CreditorEmail), 200),
		BankName:        sanitize(value(req.BankName), maxTextLen),
		BankIBAN:        sanitize(value(req.BankIBAN), 40),
		BankBIC:         sanitize(value(req.BankBIC), 20),
		BankRef:         sanitize(value(req.BankRef), maxTextLen),
	}
	if req.MonthlyRate != nil {
		in.MonthlyRate = *req.MonthlyRate
	}
	if in.Emoji == "" {
		in.Emoji = defaultIcon
	}
	if in.PlanStatus == "" {
		in.PlanStatus = domain.PlanOpen
	}
	return in, nil
}

// ValidateDebtUpdate only touches fields present in the body. An empty
// due_date removes the due date.
func ValidateDebtUpdate(r *http.Request) (domain.DebtUpdate, error) {
	var req debtRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.DebtUpdate{}, err
	}
	if err := req.validateCommon(); err != nil {
		return domain.DebtUpdate{}, err
	}

	u := domain.DebtUpdate{
		Name:            sanitizePtr(req.Name, maxNameLen),
		Emoji:           sanitizePtr(req.Emoji, maxEmojiLen),
		MonthlyRate:     req.MonthlyRate,
		Notes:           sanitizePtr(req.Notes, maxTextLen),
		CreditorName:    sanitizePtr(req.CreditorName, maxTextLen),
		CreditorAddress: sanitizePtr(req.CreditorAddress, maxTextLen),
		CreditorPhone:   sanitizePtr(req.CreditorPhone, 50),
		CreditorEmail:   sanitizePtr(req.CreditorEmail, 200),
		BankName:        sanitizePtr(req.BankName, maxTextLen),
		BankIBAN:        sanitizePtr(req.BankIBAN, 40),
		BankBIC:         sanitizePtr(req.BankBIC, 20),
		BankRef:         sanitizePtr(req.BankRef, maxTextLen),
	}
	if u.Name != nil && *u.Name == "" {
		return domain.DebtUpdate{}, &ValidationError{Field: "name", Message: "Name ist erforderlich."}
	}
	if req.PlanStatus != nil && *req.PlanStatus != "" {
		s := domain.PlanStatus(*req.PlanStatus)
		u.PlanStatus = &s
	}
	if req.DueDate != nil {
		due, err := parseDay("due_date", *req.DueDate, "Ungültiges Datumsformat (YYYY-MM-DD erwartet).")
		if err != nil {
			return domain.DebtUpdate{}, err
		}
		u.DueDate = due
		u.ClearDueDate = due == nil
	}
	return u, nil
}

type paymentRequest struct {
	DebtID string          `json:"debt_id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
	Note   string          `json:"note"`
}

// ValidatePaymentCreate books payments without a date on today.
func ValidatePaymentCreate(r *http.Request, today time.Time) (domain.PaymentInsert, error) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.PaymentInsert{}, err
	}

	if strings.TrimSpace(req.DebtID) == "" {
		return domain.PaymentInsert{}, &ValidationError{Field: "debt_id", Message: "Schulden-ID ist erforderlich."}
	}
	if !inRange(req.Amount, minAmount, maxAmount) {
		return domain.PaymentInsert{}, &ValidationError{Field: "amount", Message: "Betrag muss zwischen 0,01 und 99.999.999 liegen."}
	}

	day, err := parseDay("date", req.Date, "Ungültiges Datumsformat.")
	if err != nil {
		return domain.PaymentInsert{}, err
	}
	if day == nil {
		d := domain.DateOf(today)
		day = &d
	}

	return domain.PaymentInsert{
		DebtID: strings.TrimSpace(req.DebtID),
		Amount: req.Amount,
		Date:   *day,
		Note:   sanitize(req.Note, maxTextLen),
	}, nil
}

type budgetRequest struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

func ValidateBudgetEntry(r *http.Request) (domain.BudgetEntryInsert, error) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.BudgetEntryInsert{}, err
	}

	name := sanitize(req.Name, maxNameLen)
	if name == "" {
		return domain.BudgetEntryInsert{}, &ValidationError{Field: "name", Message: "Name ist erforderlich."}
	}
	if !inRange(req.Amount, minAmount, maxAmount) {
		return domain.BudgetEntryInsert{}, &ValidationError{Field: "amount", Message: "Betrag muss zwischen 0,01 und 99.999.999 liegen."}
	}

	return domain.BudgetEntryInsert{
		Name:     name,
		Amount:   req.Amount,
		Category: sanitize(req.Category, 50),
	}, nil
}

type profileRequest struct {
	Name string `json:"name"`
}

func ValidateProfileUpdate(r *http.Request) (string, error) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", err
	}
	return sanitize(req.Name, maxNameLen), nil
}
