package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/letter"
	"schuldenfrei/internal/logger"
	"schuldenfrei/internal/repository"
)

type DebtService struct {
	profiles  ProfileRepository
	debts     DebtRepository
	payments  PaymentRepository
	freeLimit int
	log       *logger.Logger
	now       func() time.Time
}

func NewDebtService(
	profiles ProfileRepository,
	debts DebtRepository,
	payments PaymentRepository,
	freeLimit int,
	log *logger.Logger,
) *DebtService {
	return &DebtService{
		profiles:  profiles,
		debts:     debts,
		payments:  payments,
		freeLimit: freeLimit,
		log:       log.WithComponent("debts"),
		now:       time.Now,
	}
}

type DebtList struct {
	Debts  []aggregate.DebtView   `json:"debts"`
	Counts aggregate.FilterCounts `json:"counts"`
	Totals aggregate.Totals       `json:"totals"`
}

type DebtDetail struct {
	aggregate.DebtView
	Payments      []domain.Payment `json:"payments"`
	LetterPrefill letter.Form      `json:"letter_prefill"`
}

// List describes every debt, then narrows by filter and category. Counts and
// totals always cover the full list.
func (s *DebtService) List(ctx context.Context, userID string, filter aggregate.ListFilter, category aggregate.Category) (*DebtList, error) {
	debts, err := s.debts.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := aggregate.DescribeAll(debts, s.now())
	return &DebtList{
		Debts:  aggregate.Filter(views, filter, category),
		Counts: aggregate.CountFilters(views),
		Totals: aggregate.ComputeTotals(debts),
	}, nil
}

func (s *DebtService) Get(ctx context.Context, userID, id string) (*DebtDetail, error) {
	d, err := s.debts.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.List(ctx, repository.PaymentsFilter{UserID: userID, DebtID: &id})
	if err != nil {
		return nil, err
	}

	return &DebtDetail{
		DebtView:      aggregate.Describe(*d, s.now()),
		Payments:      payments,
		LetterPrefill: letter.Prefill(*d),
	}, nil
}

// Create refuses a new debt once a free user reached the limit.
func (s *DebtService) Create(ctx context.Context, userID string, in domain.DebtInsert) (*aggregate.DebtView, error) {
	if err := s.checkLimit(ctx, userID); err != nil {
		return nil, err
	}

	d, err := s.debts.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	s.log.Info("debt created", "user_id", userID, "debt_id", d.ID)
	v := aggregate.Describe(*d, s.now())
	return &v, nil
}

func (s *DebtService) checkLimit(ctx context.Context, userID string) error {
	premium, err := s.isPremium(ctx, userID)
	if err != nil {
		return err
	}
	if premium {
		return nil
	}

	n, err := s.debts.Count(ctx, userID)
	if err != nil {
		return err
	}
	if n >= s.freeLimit {
		return &LimitError{Limit: s.freeLimit}
	}
	return nil
}

// isPremium treats a missing profile as a free one.
func (s *DebtService) isPremium(ctx context.Context, userID string) (bool, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load profile: %w", err)
	}
	return p.IsPremium(domain.DateOf(s.now())), nil
}

func (s *DebtService) Update(ctx context.Context, userID, id string, u domain.DebtUpdate) (*aggregate.DebtView, error) {
	d, err := s.debts.Update(ctx, userID, id, u)
	if err != nil {
		return nil, err
	}

	v := aggregate.Describe(*d, s.now())
	return &v, nil
}

func (s *DebtService) Delete(ctx context.Context, userID, id string) error {
	if err := s.debts.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info("debt deleted", "user_id", userID, "debt_id", id)
	return nil
}
