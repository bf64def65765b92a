package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schuldenfrei/internal/domain"

	"github.com/google/uuid"
)

const (
	searchLimit = 20
	recentLimit = 50
)

const profileColumns = `p.id, COALESCE(p.email, ''), COALESCE(p.name, ''), p.plan, p.premium_until, p.created_at`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Plan, &p.PremiumUntil, &p.CreatedAt)
	return p, err
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id = $1`, userID)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) UpdateName(ctx context.Context, userID, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET name = $1 WHERE id = $2`, name, userID)
	if err != nil {
		return fmt.Errorf("update profile name: %w", err)
	}
	return expectRow(res)
}

// Search matches the id exactly when term is a UUID, otherwise an email substring.
func (r *ProfileRepository) Search(ctx context.Context, term string) ([]domain.Profile, error) {
	where := "p.email ILIKE $1"
	arg := "%" + escapeLike(term) + "%"
	if _, err := uuid.Parse(term); err == nil {
		where = "p.id = $1"
		arg = term
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles p WHERE %s ORDER BY p.created_at DESC LIMIT %d`,
		profileColumns, where, searchLimit)
	return r.list(ctx, query, arg)
}

func (r *ProfileRepository) ListRecent(ctx context.Context) ([]domain.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles p ORDER BY p.created_at DESC LIMIT %d`, profileColumns, recentLimit)
	return r.list(ctx, query)
}

func (r *ProfileRepository) list(ctx context.Context, query string, args ...any) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	result := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

func (r *ProfileRepository) CountByPlan(ctx context.Context) (domain.PlanCounts, error) {
	var c domain.PlanCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE plan = 'free'),
			COUNT(*) FILTER (WHERE plan = 'premium')
		FROM profiles
	`).Scan(&c.Total, &c.Free, &c.Premium)
	if err != nil {
		return c, fmt.Errorf("count profiles: %w", err)
	}
	return c, nil
}

// SetPlan stores premiumUntil only for the premium plan.
func (r *ProfileRepository) SetPlan(ctx context.Context, userID string, plan domain.Plan, premiumUntil *domain.Date) error {
	if plan != domain.PlanPremium {
		premiumUntil = nil
	}

	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET plan = $1, premium_until = $2 WHERE id = $3`,
		string(plan), nullDate(premiumUntil), userID)
	if err != nil {
		return fmt.Errorf("set plan: %w", err)
	}
	return expectRow(res)
}
