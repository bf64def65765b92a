package letter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldError reports a required form field that is missing.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Letter struct {
	TemplateID string `json:"template_id"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Closing    string `json:"closing"`
	Date       string `json:"date"`
	Form       Form   `json:"form"`
}

// Compose fills the template with the form. Name, creditor and amount are required.
func Compose(templateID string, f Form, today time.Time) (*Letter, error) {
	if _, ok := Lookup(templateID); !ok {
		return nil, &FieldError{Field: "template", Message: "Unbekannte Vorlage"}
	}
	if strings.TrimSpace(f.Name) == "" {
		return nil, &FieldError{Field: "name", Message: "Name ist erforderlich"}
	}
	if strings.TrimSpace(f.Creditor) == "" {
		return nil, &FieldError{Field: "creditor", Message: "Gläubiger ist erforderlich"}
	}
	if strings.TrimSpace(f.Amount) == "" {
		return nil, &FieldError{Field: "amount", Message: "Betrag ist erforderlich"}
	}

	amt := parseAmount(f.Amount)
	rate := parseAmount(f.Rate)
	offer := parseAmount(f.OfferAmount)

	months := int64(0)
	if rate.IsPositive() {
		months = amt.Div(rate).Ceil().IntPart()
	}

	reasonLine := func(label string) string {
		if f.Reason == "" {
			return ""
		}
		return fmt.Sprintf("• %s: %s\n", label, f.Reason)
	}

	l := &Letter{TemplateID: templateID, Date: LongDate(today), Form: f}

	switch templateID {
	case Ratenzahlung:
		l.Subject = "Vorschlag zur Ratenzahlung – Offene Forderung " + Euro(amt)
		l.Body = fmt.Sprintf("ich möchte die offene Forderung in Höhe von %s transparent und verlässlich begleichen. Mein Vorschlag:\n\n"+
			"• Monatliche Rate: %s\n• Laufzeit: ca. %d Monate\n• Beginn: %s\n%s\n\n"+
			"Die Zahlung erfolgt jeweils zum 1. eines Monats.",
			Euro(amt), Euro(rate), months, dateOr(f.StartDate, "zum nächstmöglichen Zeitpunkt"), reasonLine("Hintergrund"))
		l.Closing = "Bitte bestätigen Sie die Vereinbarung kurz. Vielen Dank."

	case Vergleich:
		pct := int64(0)
		if amt.IsPositive() {
			pct = offer.Div(amt).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
		l.Subject = "Vergleich zur Erledigung – Offene Forderung " + Euro(amt)
		l.Body = fmt.Sprintf("zur schnellen und fairen Erledigung biete ich Ihnen folgenden Vergleich an:\n\n"+
			"• Angebot: %s (%d%% der Forderung)\n• Zahlungsfrist: innerhalb von 14 Tagen nach Annahme\n%s\n\n"+
			"Im Gegenzug bitte ich um Erledigung der Restforderung.",
			Euro(offer), pct, reasonLine("Hintergrund"))
		l.Closing = "Ich freue mich über Ihre kurze Bestätigung."

	case Stundung:
		resume := ""
		if rate.IsPositive() {
			resume = fmt.Sprintf(" mit %s/Monat", Euro(rate))
		}
		l.Subject = "Befristete Stundung – Offene Forderung " + Euro(amt)
		l.Body = fmt.Sprintf("ich bitte um eine befristete Stundung.\n\n"+
			"• Bis: %s\n• Danach: Wiederaufnahme der Zahlungen%s\n%s",
			dateOr(f.PauseUntil, "[Datum]"), resume, reasonLine("Hintergrund"))
		l.Closing = "Vielen Dank für Ihre Kulanz und kurze Rückmeldung."

	case Teilzahlung:
		l.Subject = "Einmalige Teilzahlung – Offene Forderung " + Euro(amt)
		l.Body = fmt.Sprintf("ich biete eine einmalige Zahlung zur Erledigung an:\n\n"+
			"• Einmalzahlung: %s\n• Frist: innerhalb von 7 Tagen nach Annahme\n\n"+
			"Bitte akzeptieren Sie die Zahlung als vollständige Erledigung.", Euro(offer))
		l.Closing = "Ich freue mich über Ihre Bestätigung."

	case MahnungAntwort:
		l.Subject = "Antwort auf Ihre Mahnung – Forderung " + Euro(amt)
		l.Body = fmt.Sprintf("danke für Ihre Erinnerung. Ich schlage folgenden Zahlungsplan vor:\n\n"+
			"• Rate: %s\n• Laufzeit: ca. %d Monate\n• Start: %s\n%s\n\n"+
			"Ich bitte um Aussetzung weiterer Gebühren während des Plans.",
			Euro(rate), months, dateOr(f.StartDate, "sofort"), reasonLine("Hinweis"))
		l.Closing = "Bitte geben Sie mir kurz Rückmeldung."

	case Haertefall:
		situation := f.Reason
		if situation == "" {
			situation = "aktuelle finanzielle Notlage"
		}
		ability := "derzeit keine regelmäßigen Zahlungen möglich"
		if rate.IsPositive() {
			ability = fmt.Sprintf("max. %s/Monat", Euro(rate))
		}
		l.Subject = "Härtefallantrag – Offene Forderung " + Euro(amt)
		l.Body = fmt.Sprintf("ich beantrage eine Berücksichtigung als Härtefall.\n\n"+
			"• Situation: %s\n• Zahlungsfähigkeit: %s\n\n"+
			"Ich bitte um Reduzierung/Anpassung der Forderung und Aussetzung von Gebühren.", situation, ability)
		l.Closing = "Gern reiche ich Nachweise nach. Vielen Dank."
	}

	return l, nil
}

// PlainText is the full letter for copying into a mail client.
func (l *Letter) PlainText() string {
	f := l.Form
	return fmt.Sprintf("%s\n%s\n%s %s\n\n%s\n\n%s\n%s\n%s %s\n\nBetreff: %s\n\nSehr geehrte Damen und Herren,\n\n%s\n\n%s\n\nMit freundlichen Grüßen\n%s",
		f.Name, f.Street, f.Zip, f.City,
		l.Date,
		f.Creditor, f.CreditorStreet, f.CreditorZip, f.CreditorCity,
		l.Subject, l.Body, l.Closing, f.Name)
}

// Document turns the composed letter into a printable layout.
func (l *Letter) Document() Document {
	f := l.Form
	doc := Document{
		SenderName:      f.Name,
		SenderStreet:    f.Street,
		SenderZip:       f.Zip,
		SenderCity:      f.City,
		RecipientName:   f.Creditor,
		RecipientStreet: f.CreditorStreet,
		RecipientZip:    f.CreditorZip,
		RecipientCity:   f.CreditorCity,
		LetterDate:      l.Date,
		Subject:         l.Subject,
		Body:            "Sehr geehrte Damen und Herren,\n\n" + l.Body,
		Closing:         l.Closing,
	}

	rate := parseAmount(f.Rate)
	if (l.TemplateID == Ratenzahlung || l.TemplateID == MahnungAntwort) && rate.IsPositive() {
		amt := parseAmount(f.Amount)
		doc.Plan = Plan{
			TotalAmount:  Euro(amt),
			MonthlyRate:  Euro(rate),
			Duration:     fmt.Sprintf("ca. %d Monate", amt.Div(rate).Ceil().IntPart()),
			PaymentStart: dateOr(f.StartDate, ""),
		}
	}
	return doc
}

func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func dateOr(iso, fallback string) string {
	if iso == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return LongDate(t)
}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// LongDate formats like "1. März 2024".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year())
}

// Euro formats a whole-euro amount with German grouping, e.g. "1.250 €".
func Euro(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + " €"
}
