package repository

import (
	"context"
	"database/sql"
	"fmt"

	"schuldenfrei/internal/domain"

	"github.com/google/uuid"
)

type AgreementRepository struct {
	db *sql.DB
}

func NewAgreementRepository(db *sql.DB) *AgreementRepository {
	return &AgreementRepository{db: db}
}

func (r *AgreementRepository) List(ctx context.Context, userID string, debtID *string) ([]domain.Agreement, error) {
	query := `SELECT id, user_id, debt_id, type, content, created_at FROM agreements WHERE user_id = $1`
	args := []any{userID}
	if debtID != nil && *debtID != "" {
		query += ` AND debt_id = $2`
		args = append(args, *debtID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list agreements: %w", err)
	}
	defer rows.Close()

	out := []domain.Agreement{}
	for rows.Next() {
		var a domain.Agreement
		if err := rows.Scan(&a.ID, &a.UserID, &a.DebtID, &a.Type, &a.Content, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *AgreementRepository) Create(ctx context.Context, userID string, in domain.AgreementInsert) (*domain.Agreement, error) {
	var a domain.Agreement
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO agreements (id, user_id, debt_id, type, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, debt_id, type, content, created_at`,
		uuid.NewString(), userID, in.DebtID, in.Type, in.Content,
	).Scan(&a.ID, &a.UserID, &a.DebtID, &a.Type, &a.Content, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert agreement: %w", err)
	}
	return &a, nil
}
