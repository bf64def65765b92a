package service

import (
	"fmt"
	"time"

	"schuldenfrei/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetProfile    = "Profil"
	sheetDebts      = "Schulden"
	sheetPayments   = "Zahlungen"
	sheetAgreements = "Vereinbarungen"
	sheetKPIs       = "Kennzahlen"

	euroFormat = `#,##0.00 "€"`
)

type sheet struct {
	f     *excelize.File
	name  string
	row   int
	money int
	err   error
}

func (s *sheet) add(values ...any) {
	if s.err != nil {
		return
	}
	s.row++
	cell, _ := excelize.CoordinatesToCellName(1, s.row)
	s.err = s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheet) header(style int, titles ...any) {
	s.add(titles...)
	if s.err == nil {
		s.err = s.f.SetRowStyle(s.name, s.row, s.row, style)
	}
}

// moneyCols formats the given 1-based columns as euro amounts from the header down.
func (s *sheet) moneyCols(cols ...int) {
	for _, c := range cols {
		if s.err != nil || s.row < 2 {
			return
		}
		from, _ := excelize.CoordinatesToCellName(c, 2)
		to, _ := excelize.CoordinatesToCellName(c, s.row)
		s.err = s.f.SetCellStyle(s.name, from, to, s.money)
	}
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func dateCell(d *domain.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// BuildWorkbook writes one customer's data into an XLSX file.
func BuildWorkbook(data *CustomerData, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetProfile); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetDebts, sheetPayments, sheetAgreements, sheetKPIs} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	euro := euroFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &euro})
	if err != nil {
		return nil, err
	}

	_ = f.SetDocProps(&excelize.DocProperties{
		Creator: "schuldenfrei",
		Title:   fmt.Sprintf("Export %s", data.Profile.Email),
		Created: now.UTC().Format(time.RFC3339),
	})

	sheets := []*sheet{
		writeProfile(f, data, now, bold),
		writeDebts(f, data, bold, moneyStyle),
		writePayments(f, data, bold, moneyStyle),
		writeAgreements(f, data, bold),
		writeKPIs(f, data, bold, moneyStyle),
	}
	for _, s := range sheets {
		if s.err != nil {
			return nil, fmt.Errorf("sheet %s: %w", s.name, s.err)
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeProfile(f *excelize.File, data *CustomerData, now time.Time, bold int) *sheet {
	s := &sheet{f: f, name: sheetProfile}
	p := data.Profile

	s.header(bold, "Feld", "Wert")
	s.add("ID", p.ID)
	s.add("E-Mail", p.Email)
	s.add("Name", p.Name)
	s.add("Plan", string(p.Plan))
	s.add("Premium bis", dateCell(p.PremiumUntil))
	s.add("Registriert", p.CreatedAt.Format("02.01.2006"))
	s.add("Exportiert", now.Format("02.01.2006 15:04"))

	if s.err == nil {
		s.err = f.SetColWidth(s.name, "A", "B", 28)
	}
	return s
}

func writeDebts(f *excelize.File, data *CustomerData, bold, moneyStyle int) *sheet {
	s := &sheet{f: f, name: sheetDebts, money: moneyStyle}

	s.header(bold, "Name", "Gläubiger", "Kategorie", "Status", "Plan", "Betrag", "Bezahlt", "Offen",
		"Fortschritt %", "Monatsrate", "Fällig am", "IBAN", "Notizen")
	for _, v := range data.Debts {
		s.add(
			v.Name,
			v.CreditorName,
			string(v.Category),
			v.StatusLabel,
			string(v.PlanStatus),
			money(v.OriginalAmount),
			money(v.PaidAmount),
			money(v.Remaining),
			v.PercentPaid,
			money(v.MonthlyRate),
			dateCell(v.DueDate),
			v.BankIBAN,
			v.Notes,
		)
	}
	s.moneyCols(6, 7, 8, 10)

	if s.err == nil {
		s.err = f.SetColWidth(s.name, "A", "M", 16)
	}
	return s
}

func writePayments(f *excelize.File, data *CustomerData, bold, moneyStyle int) *sheet {
	s := &sheet{f: f, name: sheetPayments, money: moneyStyle}

	names := make(map[string]string, len(data.Debts))
	for _, v := range data.Debts {
		names[v.ID] = v.Name
	}

	s.header(bold, "Datum", "Schuld", "Betrag", "Notiz")
	for _, p := range data.Payments {
		s.add(p.Date.String(), names[p.DebtID], money(p.Amount), p.Note)
	}
	s.moneyCols(3)
	return s
}

func writeAgreements(f *excelize.File, data *CustomerData, bold int) *sheet {
	s := &sheet{f: f, name: sheetAgreements}

	s.header(bold, "Erstellt", "Vorlage", "Inhalt")
	for _, a := range data.Agreements {
		s.add(a.CreatedAt.Format("02.01.2006"), a.Type, a.Content)
	}

	if s.err == nil {
		s.err = f.SetColWidth(s.name, "C", "C", 80)
	}
	return s
}

func writeKPIs(f *excelize.File, data *CustomerData, bold, moneyStyle int) *sheet {
	s := &sheet{f: f, name: sheetKPIs, money: moneyStyle}
	k := data.KPIs

	s.header(bold, "Kennzahl", "Wert")
	s.add("Gesamtbetrag", money(k.OriginalTotal))
	s.add("Bezahlt", money(k.PaidTotal))
	s.add("Offen", money(k.Remaining))
	s.add("Monatliche Raten", money(k.MonthlyTotal))
	if s.err == nil {
		s.err = f.SetCellStyle(s.name, "B2", "B5", moneyStyle)
	}
	s.add("Fortschritt %", k.PercentPaid)
	s.add("Schulden", k.DebtCount)
	s.add("Aktiv", k.ActiveCount)
	s.add("Erledigt", k.DoneCount)

	next := ""
	if k.NextDue != nil {
		next = fmt.Sprintf("%s (%s)", k.NextDue.Name, dateCell(k.NextDue.DueDate))
	}
	s.add("Nächste Fälligkeit", next)

	if s.err == nil {
		s.err = f.SetColWidth(s.name, "A", "B", 24)
	}
	return s
}
