package service

import (
	"context"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/logger"
)

type BudgetService struct {
	debts  DebtRepository
	budget BudgetRepository
	log    *logger.Logger
}

func NewBudgetService(debts DebtRepository, budget BudgetRepository, log *logger.Logger) *BudgetService {
	return &BudgetService{debts: debts, budget: budget, log: log.WithComponent("budget")}
}

func (s *BudgetService) List(ctx context.Context, kind domain.BudgetKind, userID string) ([]domain.BudgetEntry, error) {
	return s.budget.List(ctx, kind, userID)
}

// Create files blank categories under "Sonstiges".
func (s *BudgetService) Create(ctx context.Context, kind domain.BudgetKind, userID string, in domain.BudgetEntryInsert) (*domain.BudgetEntry, error) {
	in.Category = aggregate.BudgetCategory(in.Category)
	return s.budget.Create(ctx, kind, userID, in)
}

func (s *BudgetService) Delete(ctx context.Context, kind domain.BudgetKind, userID, id string) error {
	return s.budget.Delete(ctx, kind, userID, id)
}

func (s *BudgetService) Summary(ctx context.Context, userID string) (*aggregate.BudgetSummary, error) {
	debts, err := s.debts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, userID, aggregate.ComputeTotals(debts))
}

func (s *BudgetService) summarize(ctx context.Context, userID string, totals aggregate.Totals) (*aggregate.BudgetSummary, error) {
	expenses, err := s.budget.List(ctx, domain.BudgetExpense, userID)
	if err != nil {
		return nil, err
	}
	incomes, err := s.budget.List(ctx, domain.BudgetIncome, userID)
	if err != nil {
		return nil, err
	}

	summary := aggregate.Budget(totals, expenses, incomes)
	return &summary, nil
}
