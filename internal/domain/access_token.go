package domain

import "time"

type AccessToken struct {
	ID        int64
	TokenHash string
	UserID    string
	ExpiresAt *time.Time
}
