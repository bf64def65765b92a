package domain

import "time"

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPremium
}

type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Plan         Plan      `json:"plan"`
	PremiumUntil *Date     `json:"premium_until"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsPremium reports whether premium features are unlocked on the given day.
// A premium plan with a lapsed premium_until counts as free.
func (p Profile) IsPremium(today Date) bool {
	if p.Plan != PlanPremium {
		return false
	}
	if p.PremiumUntil == nil {
		return true
	}
	return !p.PremiumUntil.Before(today.Time)
}

type PlanCounts struct {
	Total   int `json:"total"`
	Free    int `json:"free"`
	Premium int `json:"premium"`
}
