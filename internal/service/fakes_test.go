package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"schuldenfrei/internal/clients"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/logger"
	"schuldenfrei/internal/repository"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func datePtr(y int, m time.Month, d int) *domain.Date {
	v := domain.NewDate(y, m, d)
	return &v
}

type fakeProfiles struct {
	mu         sync.Mutex
	byID       map[string]domain.Profile
	countCalls int
	err        error
}

func newFakeProfiles(profiles ...domain.Profile) *fakeProfiles {
	f := &fakeProfiles{byID: map[string]domain.Profile{}}
	for _, p := range profiles {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) UpdateName(_ context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = name
	f.byID[userID] = p
	return nil
}

func (f *fakeProfiles) Search(_ context.Context, term string) ([]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Profile{}
	for _, p := range f.byID {
		if p.ID == term || strings.Contains(strings.ToLower(p.Email), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) ListRecent(_ context.Context) ([]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Profile{}
	for _, p := range f.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProfiles) CountByPlan(_ context.Context) (domain.PlanCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	var c domain.PlanCounts
	for _, p := range f.byID {
		c.Total++
		if p.Plan == domain.PlanPremium {
			c.Premium++
		} else {
			c.Free++
		}
	}
	return c, nil
}

func (f *fakeProfiles) SetPlan(_ context.Context, userID string, plan domain.Plan, until *domain.Date) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if plan != domain.PlanPremium {
		until = nil
	}
	p.Plan, p.PremiumUntil = plan, until
	f.byID[userID] = p
	return nil
}

type fakeDebts struct {
	mu    sync.Mutex
	debts []domain.Debt
	seq   int
}

func (f *fakeDebts) List(_ context.Context, userID string) ([]domain.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Debt{}
	for _, d := range f.debts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDebts) Get(_ context.Context, userID, id string) (*domain.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.debts {
		if d.ID == id && d.UserID == userID {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDebts) Count(ctx context.Context, userID string) (int, error) {
	list, _ := f.List(ctx, userID)
	return len(list), nil
}

func (f *fakeDebts) Create(_ context.Context, userID string, in domain.DebtInsert) (*domain.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	d := domain.Debt{
		ID:             fmt.Sprintf("debt-%d", f.seq),
		UserID:         userID,
		Name:           in.Name,
		OriginalAmount: in.OriginalAmount,
		MonthlyRate:    in.MonthlyRate,
		PlanStatus:     in.PlanStatus,
		DueDate:        in.DueDate,
		CreditorName:   in.CreditorName,
		CreatedAt:      testNow,
	}
	f.debts = append(f.debts, d)
	return &d, nil
}

func (f *fakeDebts) Update(_ context.Context, userID, id string, u domain.DebtUpdate) (*domain.Debt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.debts {
		if d.ID != id || d.UserID != userID {
			continue
		}
		if u.Name != nil {
			d.Name = *u.Name
		}
		if u.PlanStatus != nil {
			d.PlanStatus = *u.PlanStatus
		}
		if u.ClearDueDate {
			d.DueDate = nil
		} else if u.DueDate != nil {
			d.DueDate = u.DueDate
		}
		f.debts[i] = d
		return &d, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDebts) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.debts {
		if d.ID == id && d.UserID == userID {
			f.debts = append(f.debts[:i], f.debts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakePayments struct {
	mu       sync.Mutex
	payments []domain.Payment
	debts    *fakeDebts
}

func (f *fakePayments) List(_ context.Context, flt repository.PaymentsFilter) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Payment{}
	for _, p := range f.payments {
		if p.UserID != flt.UserID {
			continue
		}
		if flt.DebtID != nil && p.DebtID != *flt.DebtID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePayments) Create(ctx context.Context, userID string, in domain.PaymentInsert) (*domain.Payment, error) {
	if _, err := f.debts.Get(ctx, userID, in.DebtID); err != nil {
		return nil, err
	}
	f.debts.addPaid(in.DebtID, in.Amount)

	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Payment{
		ID:     fmt.Sprintf("pay-%d", len(f.payments)+1),
		UserID: userID,
		DebtID: in.DebtID,
		Date:   in.Date,
		Amount: in.Amount,
		Note:   in.Note,
	}
	f.payments = append(f.payments, p)
	return &p, nil
}

func (f *fakePayments) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.payments {
		if p.ID == id && p.UserID == userID {
			f.payments = append(f.payments[:i], f.payments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeDebts) addPaid(id string, amount decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.debts {
		if f.debts[i].ID == id {
			f.debts[i].PaidAmount = f.debts[i].PaidAmount.Add(amount)
		}
	}
}

type fakeAgreements struct {
	mu         sync.Mutex
	agreements []domain.Agreement
}

func (f *fakeAgreements) List(_ context.Context, userID string, debtID *string) ([]domain.Agreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Agreement{}
	for _, a := range f.agreements {
		if a.UserID == userID && (debtID == nil || (a.DebtID != nil && *a.DebtID == *debtID)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAgreements) Create(_ context.Context, userID string, in domain.AgreementInsert) (*domain.Agreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := domain.Agreement{
		ID:        fmt.Sprintf("agr-%d", len(f.agreements)+1),
		UserID:    userID,
		DebtID:    in.DebtID,
		Type:      in.Type,
		Content:   in.Content,
		CreatedAt: testNow,
	}
	f.agreements = append(f.agreements, a)
	return &a, nil
}

type fakeBudget struct {
	mu      sync.Mutex
	entries map[domain.BudgetKind][]domain.BudgetEntry
}

func (f *fakeBudget) List(_ context.Context, kind domain.BudgetKind, userID string) ([]domain.BudgetEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.BudgetEntry{}
	for _, e := range f.entries[kind] {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBudget) Create(_ context.Context, kind domain.BudgetKind, userID string, in domain.BudgetEntryInsert) (*domain.BudgetEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries == nil {
		f.entries = map[domain.BudgetKind][]domain.BudgetEntry{}
	}
	e := domain.BudgetEntry{
		ID:       fmt.Sprintf("%s-%d", kind, len(f.entries[kind])+1),
		UserID:   userID,
		Name:     in.Name,
		Amount:   in.Amount,
		Category: in.Category,
	}
	f.entries[kind] = append(f.entries[kind], e)
	return &e, nil
}

func (f *fakeBudget) Delete(_ context.Context, kind domain.BudgetKind, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries[kind] {
		if e.ID == id && e.UserID == userID {
			f.entries[kind] = append(f.entries[kind][:i], f.entries[kind][i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeCache ignores TTLs.
type fakeCache struct {
	mu   sync.Mutex
	kv   map[string]string
	sets map[string]map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{kv: map[string]string{}, sets: map[string]map[string]bool{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.kv[key]
	if !ok {
		return "", clients.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kv[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.kv, k)
	}
	return nil
}

func (c *fakeCache) SAdd(_ context.Context, key string, members ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sets[key] == nil {
		c.sets[key] = map[string]bool{}
	}
	for _, m := range members {
		c.sets[key][fmt.Sprint(m)] = true
	}
	return nil
}

func (c *fakeCache) SRem(_ context.Context, key string, members ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range members {
		delete(c.sets[key], fmt.Sprint(m))
	}
	return nil
}

func (c *fakeCache) SMembers(_ context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []string{}
	for m := range c.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

type fakeFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (f *fakeFiles) Publish(_ context.Context, name string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[name] = data
	return "/files/" + name, nil
}

func (f *fakeFiles) only() ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.files {
		return b, len(f.files) == 1
	}
	return nil, false
}

type notification struct {
	kind     string
	owner    string
	progress float64
	stage    string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *fakeNotifier) record(e notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *fakeNotifier) NotifyExportProgress(_ context.Context, owner, _ string, progress float64, stage string) error {
	n.record(notification{kind: "progress", owner: owner, progress: progress, stage: stage})
	return nil
}

func (n *fakeNotifier) NotifyExportComplete(_ context.Context, owner, _, _, _ string) error {
	n.record(notification{kind: "complete", owner: owner})
	return nil
}

func (n *fakeNotifier) NotifyExportFailed(_ context.Context, owner, _, _ string) error {
	n.record(notification{kind: "failed", owner: owner})
	return nil
}

func (n *fakeNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.kind
		if e.kind == "progress" {
			out[i] = e.stage
		}
	}
	return out
}

var errBoom = errors.New("boom")

func nopLog() *logger.Logger { return logger.Nop() }
