package service

import (
	"context"
	"time"

	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/repository"
)

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateName(ctx context.Context, userID, name string) error
	Search(ctx context.Context, term string) ([]domain.Profile, error)
	ListRecent(ctx context.Context) ([]domain.Profile, error)
	CountByPlan(ctx context.Context) (domain.PlanCounts, error)
	SetPlan(ctx context.Context, userID string, plan domain.Plan, premiumUntil *domain.Date) error
}

type DebtRepository interface {
	List(ctx context.Context, userID string) ([]domain.Debt, error)
	Get(ctx context.Context, userID, id string) (*domain.Debt, error)
	Count(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, userID string, in domain.DebtInsert) (*domain.Debt, error)
	Update(ctx context.Context, userID, id string, u domain.DebtUpdate) (*domain.Debt, error)
	Delete(ctx context.Context, userID, id string) error
}

type PaymentRepository interface {
	List(ctx context.Context, f repository.PaymentsFilter) ([]domain.Payment, error)
	Create(ctx context.Context, userID string, in domain.PaymentInsert) (*domain.Payment, error)
	Delete(ctx context.Context, userID, id string) error
}

type AgreementRepository interface {
	List(ctx context.Context, userID string, debtID *string) ([]domain.Agreement, error)
	Create(ctx context.Context, userID string, in domain.AgreementInsert) (*domain.Agreement, error)
}

type BudgetRepository interface {
	List(ctx context.Context, kind domain.BudgetKind, userID string) ([]domain.BudgetEntry, error)
	Create(ctx context.Context, kind domain.BudgetKind, userID string, in domain.BudgetEntryInsert) (*domain.BudgetEntry, error)
	Delete(ctx context.Context, kind domain.BudgetKind, userID, id string) error
}

// Cache is the subset of clients.RedisClient the services use.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
}
