package service

import (
	"context"
	"fmt"
	"time"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/repository"
)

// CustomerData is everything stored for one user, with computed KPIs.
type CustomerData struct {
	Profile    domain.Profile       `json:"profile"`
	KPIs       aggregate.Totals     `json:"kpis"`
	Debts      []aggregate.DebtView `json:"debts"`
	Payments   []domain.Payment     `json:"payments"`
	Agreements []domain.Agreement   `json:"agreements"`
}

type customerLoader struct {
	profiles   ProfileRepository
	debts      DebtRepository
	payments   PaymentRepository
	agreements AgreementRepository
}

func (l customerLoader) load(ctx context.Context, userID string, now time.Time) (*CustomerData, error) {
	profile, err := l.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}

	debts, err := l.debts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load debts: %w", err)
	}

	payments, err := l.payments.List(ctx, repository.PaymentsFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	agreements, err := l.agreements.List(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("load agreements: %w", err)
	}

	return &CustomerData{
		Profile:    *profile,
		KPIs:       aggregate.ComputeTotals(debts),
		Debts:      aggregate.DescribeAll(debts, now),
		Payments:   payments,
		Agreements: agreements,
	}, nil
}

// narrow keeps the debts the scope selects and recomputes the KPIs from them.
// Payments of dropped debts go as well.
func (d *CustomerData) narrow(scope Scope) {
	d.Debts = aggregate.Filter(d.Debts, scope.Filter, scope.Category)

	kept := make([]domain.Debt, 0, len(d.Debts))
	ids := make(map[string]bool, len(d.Debts))
	for _, v := range d.Debts {
		kept = append(kept, v.Debt)
		ids[v.ID] = true
	}
	d.KPIs = aggregate.ComputeTotals(kept)

	payments := make([]domain.Payment, 0, len(d.Payments))
	for _, p := range d.Payments {
		if ids[p.DebtID] {
			payments = append(payments, p)
		}
	}
	d.Payments = payments
}
