package repository

import (
	"context"
	"database/sql"
	"fmt"

	"schuldenfrei/internal/domain"

	"github.com/google/uuid"
)

// BudgetRepository serves both recurring expenses and incomes; the kind picks the table.
type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func budgetTable(kind domain.BudgetKind) (string, error) {
	switch kind {
	case domain.BudgetExpense:
		return "expenses", nil
	case domain.BudgetIncome:
		return "incomes", nil
	}
	return "", fmt.Errorf("unknown budget kind %q", kind)
}

// List returns entries ordered by amount, largest first.
func (r *BudgetRepository) List(ctx context.Context, kind domain.BudgetKind, userID string) ([]domain.BudgetEntry, error) {
	table, err := budgetTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, user_id, name, amount, COALESCE(category, ''), created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY amount DESC`, table), userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	out := []domain.BudgetEntry{}
	for rows.Next() {
		var e domain.BudgetEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Amount, &e.Category, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *BudgetRepository) Create(ctx context.Context, kind domain.BudgetKind, userID string, in domain.BudgetEntryInsert) (*domain.BudgetEntry, error) {
	table, err := budgetTable(kind)
	if err != nil {
		return nil, err
	}

	var e domain.BudgetEntry
	err = r.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, user_id, name, amount, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, amount, COALESCE(category, ''), created_at`, table),
		uuid.NewString(), userID, in.Name, in.Amount, in.Category,
	).Scan(&e.ID, &e.UserID, &e.Name, &e.Amount, &e.Category, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	return &e, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, kind domain.BudgetKind, userID, id string) error {
	table, err := budgetTable(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table), id, userID)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return expectRow(res)
}
