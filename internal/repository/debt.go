package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"schuldenfrei/internal/domain"

	"github.com/google/uuid"
)

const debtColumns = `
	d.id,
	d.user_id,
	d.name,
	COALESCE(d.emoji, ''),
	d.original_amount,
	d.paid_amount,
	COALESCE(d.monthly_rate, 0),
	d.plan_status,
	d.due_date,
	COALESCE(d.notes, ''),
	COALESCE(d.creditor_name, ''),
	COALESCE(d.creditor_address, ''),
	COALESCE(d.creditor_phone, ''),
	COALESCE(d.creditor_email, ''),
	COALESCE(d.bank_name, ''),
	COALESCE(d.bank_iban, ''),
	COALESCE(d.bank_bic, ''),
	COALESCE(d.bank_ref, ''),
	d.created_at`

type DebtRepository struct {
	db *sql.DB
}

func NewDebtRepository(db *sql.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

func scanDebt(row rowScanner) (domain.Debt, error) {
	var d domain.Debt
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Emoji,
		&d.OriginalAmount,
		&d.PaidAmount,
		&d.MonthlyRate,
		&d.PlanStatus,
		&d.DueDate,
		&d.Notes,
		&d.CreditorName,
		&d.CreditorAddress,
		&d.CreditorPhone,
		&d.CreditorEmail,
		&d.BankName,
		&d.BankIBAN,
		&d.BankBIC,
		&d.BankRef,
		&d.CreatedAt,
	)
	return d, err
}

// List returns the user's debts, newest first.
func (r *DebtRepository) List(ctx context.Context, userID string) ([]domain.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+debtColumns+` FROM debts d WHERE d.user_id = $1 ORDER BY d.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	result := []domain.Debt{}
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DebtRepository) Get(ctx context.Context, userID, id string) (*domain.Debt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts d WHERE d.id = $1 AND d.user_id = $2`, id, userID)

	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get debt: %w", err)
	}
	return &d, nil
}

func (r *DebtRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM debts WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count debts: %w", err)
	}
	return n, nil
}

func (r *DebtRepository) Create(ctx context.Context, userID string, in domain.DebtInsert) (*domain.Debt, error) {
	id := uuid.NewString()

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO debts (
			id, user_id, name, emoji, original_amount, paid_amount, monthly_rate, plan_status, due_date, notes,
			creditor_name, creditor_address, creditor_phone, creditor_email,
			bank_name, bank_iban, bank_bic, bank_ref
		) VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+strings.ReplaceAll(debtColumns, "d.", ""),
		id, userID, in.Name, in.Emoji, in.OriginalAmount, in.MonthlyRate, string(in.PlanStatus), nullDate(in.DueDate), in.Notes,
		in.CreditorName, in.CreditorAddress, in.CreditorPhone, in.CreditorEmail,
		in.BankName, in.BankIBAN, in.BankBIC, in.BankRef,
	)

	d, err := scanDebt(row)
	if err != nil {
		return nil, fmt.Errorf("insert debt: %w", err)
	}
	return &d, nil
}

// Update applies the non-nil fields of u. An empty update just returns the current row.
func (r *DebtRepository) Update(ctx context.Context, userID, id string, u domain.DebtUpdate) (*domain.Debt, error) {
	var b setBuilder

	addString := func(column string, v *string) {
		if v != nil {
			b.add(column, *v)
		}
	}

	addString("name", u.Name)
	addString("emoji", u.Emoji)
	if u.MonthlyRate != nil {
		b.add("monthly_rate", *u.MonthlyRate)
	}
	if u.PlanStatus != nil {
		b.add("plan_status", string(*u.PlanStatus))
	}
	if u.ClearDueDate {
		b.add("due_date", nil)
	} else if u.DueDate != nil {
		b.add("due_date", u.DueDate.String())
	}
	addString("notes", u.Notes)
	addString("creditor_name", u.CreditorName)
	addString("creditor_address", u.CreditorAddress)
	addString("creditor_phone", u.CreditorPhone)
	addString("creditor_email", u.CreditorEmail)
	addString("bank_name", u.BankName)
	addString("bank_iban", u.BankIBAN)
	addString("bank_bic", u.BankBIC)
	addString("bank_ref", u.BankRef)

	if b.empty() {
		return r.Get(ctx, userID, id)
	}

	idx := b.where(id, userID)
	query := fmt.Sprintf(`UPDATE debts SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(b.sets, ", "), idx[0], idx[1], strings.ReplaceAll(debtColumns, "d.", ""))

	d, err := scanDebt(r.db.QueryRowContext(ctx, query, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update debt: %w", err)
	}
	return &d, nil
}

// Delete removes the debt; payments and agreements follow via ON DELETE CASCADE.
func (r *DebtRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return expectRow(res)
}
