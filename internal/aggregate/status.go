package aggregate

import (
	"math"
	"time"

	"schuldenfrei/internal/domain"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusSoon    Status = "soon"
	StatusToday   Status = "today"
	StatusOverdue Status = "overdue"
	StatusDone    Status = "done"
	StatusPending Status = "pending"
)

// SoonWindowDays is how many days ahead a due date counts as "soon".
const SoonWindowDays = 5

// Urgent reports whether the status needs the user's attention.
func (s Status) Urgent() bool {
	return s == StatusSoon || s == StatusToday || s == StatusOverdue
}

// Label is the German badge text shown next to a debt.
func (s Status) Label() string {
	switch s {
	case StatusOK:
		return "Aktuell"
	case StatusSoon:
		return "Bald fällig"
	case StatusToday:
		return "Heute fällig"
	case StatusOverdue:
		return "Überfällig"
	case StatusDone:
		return "Erledigt"
	case StatusPending:
		return "In Klärung"
	}
	return string(s)
}

// DebtStatus classifies a debt relative to the calendar day of now, taken in
// now's location. Only debts with an agreed rate plan can become due; open and
// negotiated debts stay pending whatever their due date says.
func DebtStatus(d domain.Debt, now time.Time) Status {
	if !d.Active() {
		return StatusDone
	}
	if d.PlanStatus != domain.PlanRate {
		return StatusPending
	}
	if d.DueDate == nil {
		return StatusOK
	}

	days := DaysUntil(*d.DueDate, now)
	switch {
	case days < 0:
		return StatusOverdue
	case days == 0:
		return StatusToday
	case days <= SoonWindowDays:
		return StatusSoon
	default:
		return StatusOK
	}
}

// DaysUntil counts whole calendar days from now's day to due. Both ends are
// midnights in UTC so daylight saving never shifts the result.
func DaysUntil(due domain.Date, now time.Time) int {
	today := domain.DateOf(now)
	return int(math.Ceil(due.Sub(today.Time).Hours() / 24))
}
