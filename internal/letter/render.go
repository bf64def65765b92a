package letter

import (
	"bytes"
	"html/template"
	"strings"
)

// Document is the printable letter layout. All fields are optional.
type Document struct {
	SenderName   string `json:"sender_name"`
	SenderStreet string `json:"sender_street"`
	SenderZip    string `json:"sender_zip"`
	SenderCity   string `json:"sender_city"`
	SenderEmail  string `json:"sender_email"`

	RecipientName   string `json:"recipient_name"`
	RecipientStreet string `json:"recipient_street"`
	RecipientZip    string `json:"recipient_zip"`
	RecipientCity   string `json:"recipient_city"`

	Place      string `json:"place"`
	LetterDate string `json:"letter_date"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Closing    string `json:"closing"`

	Plan Plan `json:"plan"`
}

type Plan struct {
	TotalAmount   string `json:"total_amount"`
	MonthlyRate   string `json:"monthly_rate"`
	Duration      string `json:"duration"`
	PaymentStart  string `json:"payment_start"`
	PaymentMethod string `json:"payment_method"`
	ReceiverIBAN  string `json:"receiver_iban"`
	ReceiverBIC   string `json:"receiver_bic"`
	Purpose       string `json:"purpose"`
}

func (p Plan) empty() bool {
	return p == Plan{}
}

type planRow struct {
	Label string
	Value string
	Mono  bool
}

type view struct {
	SenderName    string
	SenderStreet  string
	SenderZipCity string
	SenderEmail   string
	DateLine      string
	ReturnLine    string
	Recipient     string
	RecipientStr  string
	RecipientZip  string
	Subject       string
	BodyLines     []string
	PlanRows      []planRow
	Closing       string
}

var page = template.Must(template.New("letter").Parse(`<!doctype html>
<html lang="de">
<head>
<meta charset="utf-8" />
<title>{{.Subject}}</title>
<style>
  @page { size: A4; margin: 20mm; }
  * { box-sizing: border-box; }
  body { margin: 0; font-family: Arial, Helvetica, sans-serif; font-size: 11.5pt; line-height: 1.45; color: #111; }
  .page { width: 170mm; }
  .header { display: flex; justify-content: space-between; align-items: flex-start; padding-bottom: 6mm; border-bottom: 0.4mm solid #111; }
  .sender-block .name { font-weight: 700; font-size: 13pt; margin-bottom: 1mm; }
  .sender-block .meta { margin-top: 2mm; font-size: 10pt; color: #333; }
  .date-block { text-align: right; font-size: 12pt; }
  .recipient-area { margin-top: 12mm; }
  .return-address { font-size: 8.5pt; color: #666; margin-bottom: 2mm; }
  .recipient-block { font-size: 11pt; line-height: 1.65; margin-bottom: 8mm; }
  .subject-block { font-weight: 700; font-size: 12pt; margin: 0 0 6mm 0; }
  .plan-box { border: 0.5mm solid #111; padding: 6mm; margin: 8mm 0 6mm 0; font-size: 10.5pt; }
  .plan-title { font-weight: 700; margin: 0 0 4mm 0; font-size: 11pt; }
  .plan-table { width: 100%; border-collapse: collapse; }
  .plan-table td.v { text-align: right; white-space: nowrap; }
  .mono { font-family: "Courier New", Courier, monospace; }
  .closing { margin-top: 8mm; }
  .signature { margin-top: 10mm; }
</style>
</head>
<body>
  <div class="page">
    <div class="header">
      <div class="sender-block">
        <div class="name">{{.SenderName}}</div>
        <div class="line">{{.SenderStreet}}</div>
        <div class="line">{{.SenderZipCity}}</div>
        {{- if .SenderEmail}}
        <div class="meta">{{.SenderEmail}}</div>
        {{- end}}
      </div>
      <div class="date-block">{{.DateLine}}</div>
    </div>
    <div class="recipient-area">
      {{- if .ReturnLine}}
      <div class="return-address">{{.ReturnLine}}</div>
      {{- end}}
      <div class="recipient-block">
        {{- if .Recipient}}<strong>{{.Recipient}}</strong><br>{{end}}
        {{- if .RecipientStr}}{{.RecipientStr}}<br>{{end}}
        {{- .RecipientZip -}}
      </div>
    </div>
    <div class="subject-block">Betreff: {{.Subject}}</div>
    <div class="body">
      {{- range .BodyLines}}{{if .}}{{.}}<br>{{else}}<br>{{end}}{{end -}}
    </div>
    {{- if .PlanRows}}
    <div class="plan-box">
      <div class="plan-title">Zahlungsdetails</div>
      <table class="plan-table">
        {{- range .PlanRows}}
        <tr><td>{{.Label}}</td><td class="v{{if .Mono}} mono{{end}}">{{.Value}}</td></tr>
        {{- end}}
      </table>
    </div>
    {{- end}}
    <div class="closing">{{.Closing}}</div>
    <div class="signature">Mit freundlichen Grüßen<br><br><br>{{.SenderName}}</div>
  </div>
</body>
</html>
`))

// RenderHTML lays the document out as an A4 business letter. Every value is
// HTML-escaped and runs of whitespace collapse to one space, except in the body
// where line breaks are kept.
func RenderHTML(d Document) ([]byte, error) {
	senderZipCity := joinNonEmpty(" ", squash(d.SenderZip), squash(d.SenderCity))
	senderCity := squash(d.SenderCity)

	place := squash(d.Place)
	if place == "" {
		place = senderCity
	}

	subject := squash(d.Subject)
	if subject == "" {
		subject = "Betreff"
	}

	v := view{
		SenderName:    squash(d.SenderName),
		SenderStreet:  squash(d.SenderStreet),
		SenderZipCity: senderZipCity,
		SenderEmail:   squash(d.SenderEmail),
		DateLine:      joinNonEmpty(", ", place, squash(d.LetterDate)),
		ReturnLine:    joinNonEmpty(" · ", squash(d.SenderName), squash(d.SenderStreet), senderZipCity),
		Recipient:     squash(d.RecipientName),
		RecipientStr:  squash(d.RecipientStreet),
		RecipientZip:  joinNonEmpty(" ", squash(d.RecipientZip), squash(d.RecipientCity)),
		Subject:       subject,
		BodyLines:     bodyLines(d.Body),
		PlanRows:      planRows(d.Plan),
		Closing:       squash(d.Closing),
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func planRows(p Plan) []planRow {
	if p.empty() {
		return nil
	}

	var rows []planRow
	add := func(label, value string, mono bool) {
		if value = squash(value); value != "" {
			rows = append(rows, planRow{Label: label, Value: value, Mono: mono})
		}
	}

	add("Offene Gesamtforderung:", p.TotalAmount, false)
	add("Vorgeschlagene Monatsrate:", p.MonthlyRate, false)
	add("Voraussichtliche Laufzeit:", p.Duration, false)
	add("Zahlungsbeginn:", p.PaymentStart, false)
	add("Zahlungsweg:", p.PaymentMethod, false)
	add("Empfänger-IBAN:", FormatIBAN(p.ReceiverIBAN), true)
	add("BIC:", p.ReceiverBIC, true)
	add("Verwendungszweck:", p.Purpose, false)
	return rows
}

// FormatIBAN uppercases and groups the IBAN in blocks of four.
func FormatIBAN(iban string) string {
	raw := strings.ToUpper(strings.Join(strings.Fields(iban), ""))

	var b strings.Builder
	n := 0
	for _, r := range raw {
		if n > 0 && n%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

func bodyLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	if strings.TrimSpace(body) == "" {
		return nil
	}

	lines := strings.Split(body, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lines[i] = ""
		}
	}
	return lines
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
