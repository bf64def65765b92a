package service

import (
	"context"
	"time"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/logger"
	"schuldenfrei/internal/repository"
)

const dashboardRecentPayments = 5

type ProfileService struct {
	profiles  ProfileRepository
	debts     DebtRepository
	payments  PaymentRepository
	budget    *BudgetService
	freeLimit int
	log       *logger.Logger
	now       func() time.Time
}

func NewProfileService(
	profiles ProfileRepository,
	debts DebtRepository,
	payments PaymentRepository,
	budget *BudgetService,
	freeLimit int,
	log *logger.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		debts:     debts,
		payments:  payments,
		budget:    budget,
		freeLimit: freeLimit,
		log:       log.WithComponent("profile"),
		now:       time.Now,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *ProfileService) UpdateName(ctx context.Context, userID, name string) (*domain.Profile, error) {
	if err := s.profiles.UpdateName(ctx, userID, name); err != nil {
		return nil, err
	}
	return s.profiles.Get(ctx, userID)
}

type Dashboard struct {
	Profile        domain.Profile          `json:"profile"`
	Premium        bool                    `json:"premium"`
	DebtLimit      *int                    `json:"debt_limit"`
	Totals         aggregate.Totals        `json:"totals"`
	Debts          []aggregate.DebtView    `json:"debts"`
	Counts         aggregate.FilterCounts  `json:"counts"`
	Budget         aggregate.BudgetSummary `json:"budget"`
	RecentPayments []domain.Payment        `json:"recent_payments"`
}

// Dashboard gathers everything the start page shows in one call.
// DebtLimit is nil for premium users.
func (s *ProfileService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	now := s.now()

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	debts, err := s.debts.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.List(ctx, repository.PaymentsFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	totals := aggregate.ComputeTotals(debts)
	budget, err := s.budget.summarize(ctx, userID, totals)
	if err != nil {
		return nil, err
	}

	views := aggregate.DescribeAll(debts, now)
	d := &Dashboard{
		Profile:        *profile,
		Premium:        profile.IsPremium(domain.DateOf(now)),
		Totals:         totals,
		Debts:          views,
		Counts:         aggregate.CountFilters(views),
		Budget:         *budget,
		RecentPayments: recentPayments(payments, dashboardRecentPayments),
	}
	if !d.Premium {
		limit := s.freeLimit
		d.DebtLimit = &limit
	}
	return d, nil
}

func recentPayments(payments []domain.Payment, n int) []domain.Payment {
	sorted := aggregate.NewestFirst(payments)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
