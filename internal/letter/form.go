package letter

import (
	"regexp"
	"strings"

	"schuldenfrei/internal/domain"
)

// Form is what the user fills in before a letter is composed. Amounts are kept
// as entered; Compose parses them leniently.
type Form struct {
	Name   string `json:"name"`
	Street string `json:"street"`
	Zip    string `json:"zip"`
	City   string `json:"city"`

	Creditor       string `json:"creditor"`
	CreditorStreet string `json:"creditor_street"`
	CreditorZip    string `json:"creditor_zip"`
	CreditorCity   string `json:"creditor_city"`

	Amount      string `json:"amount"`
	Rate        string `json:"rate"`
	StartDate   string `json:"start_date"`
	Reason      string `json:"reason"`
	OfferAmount string `json:"offer_amount"`
	PauseUntil  string `json:"pause_until"`
}

var zipCity = regexp.MustCompile(`^(\d{5})\s+(.+)`)

// Prefill fills the creditor block and amounts from a debt.
// "Street 1, 12345 City" is split into street, zip and city.
func Prefill(d domain.Debt) Form {
	f := Form{
		Creditor: d.CreditorName,
		Amount:   d.Remaining().String(),
		Rate:     d.MonthlyRate.String(),
	}
	if f.Creditor == "" {
		f.Creditor = d.Name
	}

	f.CreditorStreet, f.CreditorZip, f.CreditorCity = splitAddress(d.CreditorAddress)
	return f
}

func splitAddress(addr string) (street, zip, city string) {
	parts := strings.Split(addr, ",")
	if len(parts) < 2 {
		return addr, "", ""
	}

	street = strings.TrimSpace(parts[0])
	rest := strings.TrimSpace(parts[1])
	if m := zipCity.FindStringSubmatch(rest); m != nil {
		return street, m[1], m[2]
	}
	return street, "", rest
}
