package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/clients"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/logger"

	"github.com/google/uuid"
)

const (
	exportSetKey = "export_ids"
	exportTTL    = 20 * time.Minute

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	StageQueued     = "queued"
	StageGenerating = "generating"
	StageUploading  = "uploading"
	StageReady      = "ready"
	StageFailed     = "failed"
)

type ExportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	Owner    string    `json:"owner"`
	UserID   string    `json:"user_id"`
	Progress float64   `json:"progress"`
	Stage    string    `json:"stage"`
	FileURL  *string   `json:"file_url"`
	Error    string    `json:"error,omitempty"`
	Scope    Scope     `json:"scope"`
	Created  time.Time `json:"created_at"`
}

// Scope narrows an overview export to one debt list view. The zero value exports everything.
type Scope struct {
	Filter   aggregate.ListFilter `json:"filter,omitempty"`
	Category aggregate.Category   `json:"category,omitempty"`
}

func (sc Scope) narrows() bool {
	return (sc.Filter != "" && sc.Filter != aggregate.FilterAll) || sc.Category != ""
}

// ExportView is what clients see: the status plus a humanized age.
type ExportView struct {
	Key       string    `json:"key"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Progress  float64   `json:"progress"`
	Stage     string    `json:"stage"`
	FileURL   *string   `json:"file_url"`
	Error     string    `json:"error,omitempty"`
	CreatedAt string    `json:"created_at"`
	Created   time.Time `json:"created"`
}

type ExportService struct {
	customerLoader
	cache    Cache
	files    clients.FileStore
	notifier clients.Notifier
	log      *logger.Logger
	now      func() time.Time

	wg sync.WaitGroup
}

func NewExportService(
	profiles ProfileRepository,
	debts DebtRepository,
	payments PaymentRepository,
	agreements AgreementRepository,
	cache Cache,
	files clients.FileStore,
	notifier clients.Notifier,
	log *logger.Logger,
) *ExportService {
	return &ExportService{
		customerLoader: customerLoader{
			profiles:   profiles,
			debts:      debts,
			payments:   payments,
			agreements: agreements,
		},
		cache:    cache,
		files:    files,
		notifier: notifier,
		log:      log.WithComponent("export"),
		now:      time.Now,
	}
}

// StartOverview exports the user's own data, limited to the debts scope selects. Premium only.
func (s *ExportService) StartOverview(ctx context.Context, userID string, scope Scope) (string, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if !profile.IsPremium(domain.DateOf(s.now())) {
		return "", ErrPremiumRequired
	}
	return s.start(ctx, userID, userID, scope)
}

// Start queues a workbook export of userID's data on behalf of owner and
// returns its key. The work runs in the background.
func (s *ExportService) Start(ctx context.Context, owner, userID string) (string, error) {
	return s.start(ctx, owner, userID, Scope{})
}

func (s *ExportService) start(ctx context.Context, owner, userID string, scope Scope) (string, error) {
	typ := "overview"
	if owner == AdminOwner {
		typ = "customer"
	}

	status := &ExportStatus{
		Key:     fmt.Sprintf("exports:%s", uuid.NewString()),
		Type:    typ,
		Owner:   owner,
		UserID:  userID,
		Stage:   StageQueued,
		Scope:   scope,
		Created: s.now(),
	}

	if err := s.saveStatus(ctx, status); err != nil {
		return "", fmt.Errorf("save export status: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(context.Background(), status)
	}()

	return status.Key, nil
}

// Wait blocks until every running export finished.
func (s *ExportService) Wait() {
	s.wg.Wait()
}

func (s *ExportService) run(ctx context.Context, status *ExportStatus) {
	log := s.log.With("export", status.Key, "owner", status.Owner)

	s.progress(ctx, status, 10, StageGenerating)

	data, err := s.load(ctx, status.UserID, s.now())
	if err != nil {
		s.fail(ctx, log, status, "Daten konnten nicht geladen werden", err)
		return
	}
	if status.Scope.narrows() {
		data.narrow(status.Scope)
	}

	s.progress(ctx, status, 40, StageGenerating)

	content, err := BuildWorkbook(data, s.now())
	if err != nil {
		s.fail(ctx, log, status, "Datei konnte nicht erstellt werden", err)
		return
	}

	s.progress(ctx, status, 90, StageUploading)

	fileName := fmt.Sprintf("schuldenfrei_%s.xlsx", s.now().Format("20060102_150405"))
	url, err := s.files.Publish(ctx, fileName, content, xlsxContentType)
	if err != nil {
		s.fail(ctx, log, status, "Upload fehlgeschlagen", err)
		return
	}

	status.FileURL = &url
	s.progress(ctx, status, 100, StageReady)
	if s.notifier != nil {
		_ = s.notifier.NotifyExportComplete(ctx, status.Owner, status.Key, url, fileName)
	}

	log.Info("export ready", "file", fileName, "bytes", len(content))
}

func (s *ExportService) progress(ctx context.Context, status *ExportStatus, progress float64, stage string) {
	status.Progress = progress
	status.Stage = stage

	if err := s.saveStatus(ctx, status); err != nil {
		s.log.Warn("save export status failed", "export", status.Key, "err", err)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyExportProgress(ctx, status.Owner, status.Key, progress, stage)
	}
}

func (s *ExportService) fail(ctx context.Context, log *logger.Logger, status *ExportStatus, msg string, err error) {
	log.Error("export failed", "err", err)

	status.Stage = StageFailed
	status.Error = msg
	if err := s.saveStatus(ctx, status); err != nil {
		log.Warn("save export status failed", "err", err)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyExportFailed(ctx, status.Owner, status.Key, msg)
	}
}

func (s *ExportService) saveStatus(ctx context.Context, st *ExportStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, st.Key, string(data), exportTTL); err != nil {
		return err
	}
	return s.cache.SAdd(ctx, exportSetKey, st.Key)
}

func (s *ExportService) loadStatus(ctx context.Context, key string) (*ExportStatus, error) {
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, clients.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var st ExportStatus
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("parse export status: %w", err)
	}
	return &st, nil
}

// List returns the owner's exports, newest first. Expired keys are pruned from the index.
func (s *ExportService) List(ctx context.Context, owner string) ([]ExportView, error) {
	keys, err := s.cache.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get export keys: %w", err)
	}

	var statuses []*ExportStatus
	for _, key := range keys {
		st, err := s.loadStatus(ctx, key)
		if errors.Is(err, ErrNotFound) {
			_ = s.cache.SRem(ctx, exportSetKey, key)
			continue
		}
		if err != nil {
			s.log.Warn("skip export status", "export", key, "err", err)
			continue
		}
		if st.Owner == owner {
			statuses = append(statuses, st)
		}
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	now := s.now()
	views := make([]ExportView, 0, len(statuses))
	for _, st := range statuses {
		views = append(views, st.view(now))
	}
	return views, nil
}

// Get returns one export. Exports of other owners are reported as not found.
func (s *ExportService) Get(ctx context.Context, owner, key string) (*ExportView, error) {
	st, err := s.loadStatus(ctx, key)
	if err != nil {
		return nil, err
	}
	if st.Owner != owner {
		return nil, ErrNotFound
	}

	v := st.view(s.now())
	return &v, nil
}

func (st *ExportStatus) view(now time.Time) ExportView {
	return ExportView{
		Key:       st.Key,
		Type:      st.Type,
		UserID:    st.UserID,
		Progress:  st.Progress,
		Stage:     st.Stage,
		FileURL:   st.FileURL,
		Error:     st.Error,
		CreatedAt: humanizeDeAgo(st.Created, now),
		Created:   st.Created,
	}
}
