package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"schuldenfrei/internal/domain"
)

var ErrTokenNotFound = errors.New("token not found")

type AccessTokenRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAccessTokenRepository(db *sql.DB) *AccessTokenRepository {
	return &AccessTokenRepository{db: db, now: time.Now}
}

// HashToken is the form tokens are stored in.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// FindByPlainToken resolves a bearer token. Expired tokens are not found.
func (r *AccessTokenRepository) FindByPlainToken(ctx context.Context, plainToken string) (*domain.AccessToken, error) {
	plainToken = strings.TrimSpace(plainToken)
	if plainToken == "" {
		return nil, ErrTokenNotFound
	}

	var t domain.AccessToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, user_id, expires_at
		FROM access_tokens
		WHERE token_hash = $1
		  AND (expires_at IS NULL OR expires_at > $2)
	`, HashToken(plainToken), r.now()).Scan(&t.ID, &t.TokenHash, &t.UserID, &t.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &t, nil
}

func (r *AccessTokenRepository) TouchLastUsed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE access_tokens SET last_used_at = $1 WHERE id = $2`, r.now(), id)
	return err
}
