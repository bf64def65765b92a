package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"schuldenfrei/internal/domain"
)

func jsonRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"  hallo  ", 500, "hallo"},
		{"abcdef", 3, "abc"},
		{"äöüß", 2, "äö"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in, tt.max); got != tt.want {
			t.Errorf("sanitize(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestValidateDebtCreate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		wantErr bool
	}{
		{"minimal", `{"name":"Handy","original_amount":10}`, "", false},
		{"string amounts", `{"name":"Handy","original_amount":"10.50","monthly_rate":"5"}`, "", false},
		{"upper bound", `{"name":"x","original_amount":99999999}`, "", false},
		{"empty name", `{"name":"   ","original_amount":10}`, "name", true},
		{"long name", `{"name":"` + strings.Repeat("a", 201) + `","original_amount":10}`, "name", true},
		{"too small", `{"name":"x","original_amount":0.001}`, "original_amount", true},
		{"too large", `{"name":"x","original_amount":100000000}`, "original_amount", true},
		{"negative rate", `{"name":"x","original_amount":1,"monthly_rate":-1}`, "monthly_rate", true},
		{"long emoji", `{"name":"x","original_amount":1,"emoji":"12345678901"}`, "emoji", true},
		{"bad plan", `{"name":"x","original_amount":1,"plan_status":"paid"}`, "plan_status", true},
		{"impossible date", `{"name":"x","original_amount":1,"due_date":"2024-02-30"}`, "due_date", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateDebtCreate(jsonRequest(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			var verr *ValidationError
			if tt.wantErr && (!errors.As(err, &verr) || verr.Field != tt.field) {
				t.Errorf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateDebtCreate_Sanitizes(t *testing.T) {
	in, err := ValidateDebtCreate(jsonRequest(`{"name":"x","original_amount":1,"bank_iban":"` + strings.Repeat("D", 50) + `","due_date":"2024-04-01","plan_status":"rate"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(in.BankIBAN) != 40 {
		t.Errorf("iban should be cut to 40 chars, got %d", len(in.BankIBAN))
	}
	if in.DueDate == nil || in.DueDate.String() != "2024-04-01" || in.PlanStatus != domain.PlanRate {
		t.Errorf("unexpected insert %+v", in)
	}
}

func TestValidateDebtUpdate(t *testing.T) {
	u, err := ValidateDebtUpdate(jsonRequest(`{"notes":" neu ","due_date":""}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if u.Name != nil || u.MonthlyRate != nil || u.PlanStatus != nil {
		t.Errorf("absent fields must stay nil: %+v", u)
	}
	if u.Notes == nil || *u.Notes != "neu" {
		t.Errorf("notes not sanitized: %v", u.Notes)
	}
	if !u.ClearDueDate || u.DueDate != nil {
		t.Errorf("empty due_date should clear the date")
	}

	u, err = ValidateDebtUpdate(jsonRequest(`{"due_date":"2024-05-01","plan_status":"negotiation"}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if u.ClearDueDate || u.DueDate == nil || *u.PlanStatus != domain.PlanNegotiation {
		t.Errorf("unexpected update %+v", u)
	}

	if _, err := ValidateDebtUpdate(jsonRequest(`{"name":""}`)); err == nil {
		t.Error("empty name must be rejected")
	}
}

func TestValidatePaymentCreate(t *testing.T) {
	today := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)

	p, err := ValidatePaymentCreate(jsonRequest(`{"debt_id":" d1 ","amount":25,"date":"2024-03-01","note":"Rate März"}`), today)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.DebtID != "d1" || p.Date.String() != "2024-03-01" || p.Note != "Rate März" {
		t.Errorf("unexpected payment %+v", p)
	}

	for body, field := range map[string]string{
		`{"amount":25}`:                               "debt_id",
		`{"debt_id":"d1","amount":0}`:                 "amount",
		`{"debt_id":"d1","amount":1,"date":"3/1/24"}`: "date",
	} {
		_, err := ValidatePaymentCreate(jsonRequest(body), today)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != field {
			t.Errorf("%s: expected error on %s, got %v", body, field, err)
		}
	}
}

func TestValidateBudgetEntry(t *testing.T) {
	e, err := ValidateBudgetEntry(jsonRequest(`{"name":"Miete","amount":"850","category":" Wohnen "}`))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if e.Name != "Miete" || e.Category != "Wohnen" || e.Amount.String() != "850" {
		t.Errorf("unexpected entry %+v", e)
	}

	if _, err := ValidateBudgetEntry(jsonRequest(`{"amount":1}`)); err == nil {
		t.Error("missing name must be rejected")
	}
}
