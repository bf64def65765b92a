package domain

import "time"

type Agreement struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DebtID    *string   `json:"debt_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type AgreementInsert struct {
	DebtID  *string
	Type    string
	Content string
}
