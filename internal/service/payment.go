package service

import (
	"context"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/logger"
	"schuldenfrei/internal/repository"
)

type PaymentService struct {
	debts    DebtRepository
	payments PaymentRepository
	log      *logger.Logger
}

func NewPaymentService(debts DebtRepository, payments PaymentRepository, log *logger.Logger) *PaymentService {
	return &PaymentService{
		debts:    debts,
		payments: payments,
		log:      log.WithComponent("payments"),
	}
}

func (s *PaymentService) List(ctx context.Context, userID string, debtID *string) ([]domain.Payment, error) {
	return s.payments.List(ctx, repository.PaymentsFilter{UserID: userID, DebtID: debtID})
}

// Create books a payment against one of the user's debts.
func (s *PaymentService) Create(ctx context.Context, userID string, in domain.PaymentInsert) (*domain.Payment, error) {
	p, err := s.payments.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	s.log.Info("payment booked", "user_id", userID, "debt_id", in.DebtID, "amount", in.Amount.String())
	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, userID, id string) error {
	return s.payments.Delete(ctx, userID, id)
}

type Timeline struct {
	Payments []domain.Payment     `json:"payments"`
	Months   []aggregate.MonthSum `json:"months"`
	Totals   aggregate.Totals     `json:"totals"`
}

func (s *PaymentService) Timeline(ctx context.Context, userID string) (*Timeline, error) {
	payments, err := s.payments.List(ctx, repository.PaymentsFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	debts, err := s.debts.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Timeline{
		Payments: aggregate.NewestFirst(payments),
		Months:   aggregate.MonthlyPayments(payments),
		Totals:   aggregate.ComputeTotals(debts),
	}, nil
}
