package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"schuldenfrei/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentsFilter struct {
	UserID string
	DebtID *string
}

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `p.id, p.user_id, p.debt_id, p.date, p.amount, COALESCE(p.note, ''), p.created_at`

func scanPayment(row rowScanner) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.DebtID, &p.Date, &p.Amount, &p.Note, &p.CreatedAt)
	return p, err
}

// List returns payments ordered by date, newest first.
func (r *PaymentRepository) List(ctx context.Context, f PaymentsFilter) ([]domain.Payment, error) {
	where := []string{"p.user_id = $1"}
	args := []any{f.UserID}
	i := 2

	if f.DebtID != nil && *f.DebtID != "" {
		where = append(where, fmt.Sprintf("p.debt_id = $%d", i))
		args = append(args, *f.DebtID)
		i++
	}

	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY p.date DESC, p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create records the payment and raises the debt's paid amount in one transaction.
func (r *PaymentRepository) Create(ctx context.Context, userID string, in domain.PaymentInsert) (*domain.Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE debts SET paid_amount = paid_amount + $1 WHERE id = $2 AND user_id = $3`,
		in.Amount, in.DebtID, userID)
	if err != nil {
		return nil, fmt.Errorf("update paid amount: %w", err)
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO payments (id, user_id, debt_id, date, amount, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+strings.ReplaceAll(paymentColumns, "p.", ""),
		uuid.NewString(), userID, in.DebtID, in.Date.String(), in.Amount, in.Note)

	p, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &p, nil
}

// Delete removes the payment and lowers the debt's paid amount in one transaction.
func (r *PaymentRepository) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		debtID string
		amount decimal.Decimal
	)
	err = tx.QueryRowContext(ctx,
		`DELETE FROM payments WHERE id = $1 AND user_id = $2 RETURNING debt_id, amount`,
		id, userID).Scan(&debtID, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE debts SET paid_amount = paid_amount - $1 WHERE id = $2 AND user_id = $3`,
		amount, debtID, userID); err != nil {
		return fmt.Errorf("update paid amount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
