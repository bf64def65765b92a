package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/logger"
)

const (
	overviewCacheKey = "admin_overview"
	overviewCacheTTL = 60 * time.Second

	minSearchLength = 2

	// AdminOwner owns exports started from the admin panel.
	AdminOwner = "admin"
)

type AdminService struct {
	customerLoader
	cache   Cache
	exports *ExportService
	log     *logger.Logger
	now     func() time.Time
}

func NewAdminService(
	profiles ProfileRepository,
	debts DebtRepository,
	payments PaymentRepository,
	agreements AgreementRepository,
	cache Cache,
	exports *ExportService,
	log *logger.Logger,
) *AdminService {
	return &AdminService{
		customerLoader: customerLoader{
			profiles:   profiles,
			debts:      debts,
			payments:   payments,
			agreements: agreements,
		},
		cache:   cache,
		exports: exports,
		log:     log.WithComponent("admin"),
		now:     time.Now,
	}
}

// Search looks a customer up by exact id or email fragment.
func (s *AdminService) Search(ctx context.Context, q string) ([]domain.Profile, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minSearchLength {
		return nil, invalid("Suchbegriff zu kurz (min. %d Zeichen).", minSearchLength)
	}
	return s.profiles.Search(ctx, q)
}

type AdminOverview struct {
	Stats     domain.PlanCounts `json:"stats"`
	Customers []domain.Profile  `json:"customers"`
}

// Overview is served from the cache for up to a minute.
func (s *AdminService) Overview(ctx context.Context) (*AdminOverview, error) {
	if cached, ok := s.cachedOverview(ctx); ok {
		return cached, nil
	}

	counts, err := s.profiles.CountByPlan(ctx)
	if err != nil {
		return nil, err
	}
	counts.Total = counts.Free + counts.Premium

	customers, err := s.profiles.ListRecent(ctx)
	if err != nil {
		return nil, err
	}

	ov := &AdminOverview{Stats: counts, Customers: customers}
	if s.cache != nil {
		if data, err := json.Marshal(ov); err == nil {
			if err := s.cache.Set(ctx, overviewCacheKey, string(data), overviewCacheTTL); err != nil {
				s.log.Warn("cache overview failed", "err", err)
			}
		}
	}
	return ov, nil
}

func (s *AdminService) cachedOverview(ctx context.Context) (*AdminOverview, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, overviewCacheKey)
	if err != nil {
		return nil, false
	}

	var ov AdminOverview
	if err := json.Unmarshal([]byte(raw), &ov); err != nil {
		return nil, false
	}
	return &ov, true
}

func (s *AdminService) Customer(ctx context.Context, userID string) (*CustomerData, error) {
	if userID == "" {
		return nil, invalid("User ID erforderlich.")
	}
	return s.load(ctx, userID, s.now())
}

// SetPlan changes a customer's plan. premiumUntil is dropped for the free plan.
func (s *AdminService) SetPlan(ctx context.Context, userID string, plan domain.Plan, premiumUntil *domain.Date) error {
	if !plan.Valid() {
		return invalid("Ungültiger Plan.")
	}

	if err := s.profiles.SetPlan(ctx, userID, plan, premiumUntil); err != nil {
		return err
	}

	s.invalidateOverview(ctx)
	s.log.Info("plan changed", "user_id", userID, "plan", plan)
	return nil
}

func (s *AdminService) invalidateOverview(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, overviewCacheKey); err != nil {
		s.log.Warn("invalidate overview failed", "err", err)
	}
}

type CustomerExport struct {
	Profile    domain.Profile     `json:"profile"`
	Debts      []domain.Debt      `json:"debts"`
	Payments   []domain.Payment   `json:"payments"`
	Agreements []domain.Agreement `json:"agreements"`
	ExportedAt time.Time          `json:"exported_at"`
}

// ExportData returns the raw customer data as a single document.
func (s *AdminService) ExportData(ctx context.Context, userID string) (*CustomerExport, error) {
	now := s.now()
	data, err := s.load(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	debts := make([]domain.Debt, len(data.Debts))
	for i, v := range data.Debts {
		debts[i] = v.Debt
	}

	return &CustomerExport{
		Profile:    data.Profile,
		Debts:      debts,
		Payments:   data.Payments,
		Agreements: data.Agreements,
		ExportedAt: now.UTC(),
	}, nil
}

// ExportXLSX starts a workbook export owned by the admin session.
func (s *AdminService) ExportXLSX(ctx context.Context, userID string) (string, error) {
	if s.exports == nil {
		return "", errors.New("export pipeline not configured")
	}
	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return "", fmt.Errorf("export customer: %w", err)
	}
	return s.exports.Start(ctx, AdminOwner, userID)
}
