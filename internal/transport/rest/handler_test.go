package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/clients"
	"schuldenfrei/internal/config"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/letter"
	"schuldenfrei/internal/service"
	"schuldenfrei/internal/transport/auth"
)

const testUser = "0d7f2c1e-6b0a-4e57-8f3e-1b9c2d4a5e60"

var testNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

// Fakes embed the interface and override what a test needs; anything else
// panics on the nil embedded value.

type fakeDebts struct {
	DebtService
	created    *domain.DebtInsert
	createErr  error
	filter     aggregate.ListFilter
	category   aggregate.Category
	getErr     error
	deletedIDs []string
}

func (f *fakeDebts) List(_ context.Context, _ string, filter aggregate.ListFilter, category aggregate.Category) (*service.DebtList, error) {
	f.filter, f.category = filter, category
	return &service.DebtList{Debts: []aggregate.DebtView{}}, nil
}

func (f *fakeDebts) Get(_ context.Context, _, id string) (*service.DebtDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &service.DebtDetail{DebtView: aggregate.DebtView{Debt: domain.Debt{ID: id}}}, nil
}

func (f *fakeDebts) Create(_ context.Context, userID string, in domain.DebtInsert) (*aggregate.DebtView, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &in
	return &aggregate.DebtView{Debt: domain.Debt{ID: "new", UserID: userID, Name: in.Name}}, nil
}

func (f *fakeDebts) Delete(_ context.Context, _, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakePayments struct {
	PaymentService
	created *domain.PaymentInsert
}

func (f *fakePayments) Create(_ context.Context, _ string, in domain.PaymentInsert) (*domain.Payment, error) {
	f.created = &in
	return &domain.Payment{ID: "p1", DebtID: in.DebtID, Date: in.Date, Amount: in.Amount}, nil
}

type fakeAgreements struct {
	AgreementService
}

func (fakeAgreements) Templates() []letter.Template { return letter.Templates() }

func (fakeAgreements) Render(doc letter.Document) ([]byte, error) { return letter.RenderHTML(doc) }

type fakeExports struct {
	ExportService
	gotOwner, gotKey string
	gotScope         service.Scope
	startErr         error
}

func (f *fakeExports) StartOverview(_ context.Context, _ string, scope service.Scope) (string, error) {
	f.gotScope = scope
	if f.startErr != nil {
		return "", f.startErr
	}
	return "exports:abc", nil
}

func (f *fakeExports) Get(_ context.Context, owner, key string) (*service.ExportView, error) {
	f.gotOwner, f.gotKey = owner, key
	return &service.ExportView{Key: key, Stage: service.StageReady}, nil
}

type fakeAdmin struct {
	AdminService
	plan      domain.Plan
	planUntil *domain.Date
}

func (f *fakeAdmin) Overview(context.Context) (*service.AdminOverview, error) {
	return &service.AdminOverview{Stats: domain.PlanCounts{Total: 3, Free: 2, Premium: 1}}, nil
}

func (f *fakeAdmin) SetPlan(_ context.Context, _ string, plan domain.Plan, until *domain.Date) error {
	f.plan, f.planUntil = plan, until
	return nil
}

type testServer struct {
	debts    *fakeDebts
	payments *fakePayments
	exports  *fakeExports
	admin    *fakeAdmin
	auth     *auth.AdminAuth
	router   http.Handler
}

func withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer test" {
			r = r.WithContext(auth.WithUserID(r.Context(), testUser))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestServer(t *testing.T, files FileServer) *testServer {
	t.Helper()

	ts := &testServer{
		debts:    &fakeDebts{},
		payments: &fakePayments{},
		exports:  &fakeExports{},
		admin:    &fakeAdmin{},
		auth: auth.NewAdminAuth(config.AdminConfig{
			User: "root", Pass: "s3cret", JWTSecret: "test-secret-with-enough-length-123", SessionTTL: time.Hour,
		}, false),
	}

	limiter := auth.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)

	h := NewHandler(Services{
		Debts:      ts.debts,
		Payments:   ts.payments,
		Agreements: fakeAgreements{},
		Exports:    ts.exports,
		Admin:      ts.admin,
	}, files, nil, ts.auth, limiter, nil)
	h.now = func() time.Time { return testNow }

	ts.router = h.InitRouterWithAuth(withUser)
	return ts
}

func (ts *testServer) do(method, path, body string, user bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user {
		req.Header.Set("Authorization", "Bearer test")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Status != "success" || resp.Message != "ok" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestUserRoutesNeedUser(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/debts", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.ErrorCode != 401 || resp.Status != "error" {
		t.Errorf("unexpected envelope %+v", resp)
	}
}

func TestCreateDebt(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/debts", `{"name":"  Auto  ","original_amount":"1200.50","monthly_rate":100}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	in := ts.debts.created
	if in == nil || in.Name != "Auto" || in.OriginalAmount.String() != "1200.5" || in.MonthlyRate.String() != "100" {
		t.Fatalf("unexpected insert %+v", in)
	}
	if in.Emoji != "📄" || in.PlanStatus != domain.PlanOpen {
		t.Errorf("defaults not applied: emoji=%q plan=%q", in.Emoji, in.PlanStatus)
	}
}

func TestCreateDebt_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		createErr error
		wantCode  int
		wantMsg   string
	}{
		{"missing name", `{"original_amount":10}`, nil, 400, "Name ist erforderlich."},
		{"zero amount", `{"name":"x","original_amount":0}`, nil, 400, "Gesamtbetrag muss zwischen 0,01 und 99.999.999 liegen."},
		{"bad date", `{"name":"x","original_amount":1,"due_date":"10.03.2024"}`, nil, 400, "Ungültiges Datumsformat (YYYY-MM-DD erwartet)."},
		{"bad json", `{"name":`, nil, 400, "Ungültiges JSON."},
		{"free limit", `{"name":"x","original_amount":1}`, &service.LimitError{Limit: 5}, 403, "Du hast das Limit von 5 Schulden erreicht. Upgrade auf Premium für unbegrenzte Einträge."},
		{"internal", `{"name":"x","original_amount":1}`, context.DeadlineExceeded, 500, "Interner Fehler."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.debts.createErr = tt.createErr

			rec := ts.do(http.MethodPost, "/debts", tt.body, true)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if resp := decodeResponse(t, rec); resp.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, resp.Message)
			}
		})
	}
}

func TestListDebts_Filters(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/debts?filter=urgent&category=kredit", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ts.debts.filter != aggregate.FilterUrgent || ts.debts.category != aggregate.CategoryKredit {
		t.Errorf("filter not passed on: %q %q", ts.debts.filter, ts.debts.category)
	}

	if rec := ts.do(http.MethodGet, "/debts?filter=soon", "", true); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown filter should be rejected, got %d", rec.Code)
	}
	if rec := ts.do(http.MethodGet, "/debts?category=Leasing", "", true); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category should be rejected, got %d", rec.Code)
	}
}

func TestGetDebt_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.debts.getErr = service.ErrNotFound

	rec := ts.do(http.MethodGet, "/debts/d1", "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteDebt(t *testing.T) {
	ts := newTestServer(t, nil)

	if rec := ts.do(http.MethodDelete, "/debts/d7", "", true); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(ts.debts.deletedIDs) != 1 || ts.debts.deletedIDs[0] != "d7" {
		t.Errorf("unexpected deletes %v", ts.debts.deletedIDs)
	}
}

func TestCreatePayment_DefaultsToToday(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/payments", `{"debt_id":"d1","amount":"50"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := ts.payments.created.Date.String(); got != "2024-03-10" {
		t.Errorf("expected today's date, got %s", got)
	}
}

func TestTemplatesAndRender(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/agreements/templates", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data []letter.Template `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 6 {
		t.Errorf("expected six templates, got %d", len(resp.Data))
	}

	rec = ts.do(http.MethodPost, "/letters/render", `{"sender_name":"<Max>","subject":"Rate"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html, got %s", ct)
	}
	if body := rec.Body.String(); strings.Contains(body, "<Max>") || !strings.Contains(body, "&lt;Max&gt;") {
		t.Errorf("sender name should be escaped")
	}
}

func TestExports(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/export/overview", "", true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if ts.exports.gotScope != (service.Scope{Filter: aggregate.FilterAll}) {
		t.Errorf("plain export should cover everything, got %+v", ts.exports.gotScope)
	}

	rec = ts.do(http.MethodPost, "/export/overview?filter=urgent&category=Kredit", "", true)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	want := service.Scope{Filter: aggregate.FilterUrgent, Category: aggregate.CategoryKredit}
	if ts.exports.gotScope != want {
		t.Errorf("scope: got %+v, want %+v", ts.exports.gotScope, want)
	}

	if rec := ts.do(http.MethodPost, "/export/overview?filter=soon", "", true); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown filter should be rejected, got %d", rec.Code)
	}

	ts.exports.startErr = service.ErrPremiumRequired
	if rec := ts.do(http.MethodPost, "/export/overview", "", true); rec.Code != http.StatusPaymentRequired {
		t.Errorf("free users should get 402, got %d", rec.Code)
	}

	if rec := ts.do(http.MethodGet, "/export/abc", "", true); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ts.exports.gotOwner != testUser || ts.exports.gotKey != "exports:abc" {
		t.Errorf("unexpected lookup owner=%q key=%q", ts.exports.gotOwner, ts.exports.gotKey)
	}
}

func adminCookie(t *testing.T, ts *testServer) *http.Cookie {
	t.Helper()
	rec := ts.do(http.MethodPost, "/admin/login", `{"user":"master","pass":"master"}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AdminCookie {
			return c
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func TestAdminLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	if rec := ts.do(http.MethodPost, "/admin/login", `{"user":"root"}`, false); rec.Code != http.StatusBadRequest {
		t.Errorf("missing password should give 400, got %d", rec.Code)
	}
	if rec := ts.do(http.MethodPost, "/admin/login", `{"user":"root","pass":"wrong"}`, false); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password should give 401, got %d", rec.Code)
	}
	// two attempts per minute
	if rec := ts.do(http.MethodPost, "/admin/login", `{"user":"root","pass":"s3cret"}`, false); rec.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt should be throttled, got %d", rec.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	if rec := ts.do(http.MethodGet, "/admin/overview", "", false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}

	cookie := adminCookie(t, ts)

	rec := ts.do(http.MethodGet, "/admin/overview", "", false, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = ts.do(http.MethodPost, "/admin/actions", `{"action":"set_plan","user_id":"u1","plan":"premium","premium_until":"2025-01-31"}`, false, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ts.admin.plan != domain.PlanPremium || ts.admin.planUntil == nil || ts.admin.planUntil.String() != "2025-01-31" {
		t.Errorf("unexpected plan change %q %v", ts.admin.plan, ts.admin.planUntil)
	}

	for body, want := range map[string]string{
		`{"action":"delete_all","user_id":"u1"}`: "Unbekannte Aktion.",
		`{"action":"set_plan"}`:                  "Fehlende Parameter.",
	} {
		rec := ts.do(http.MethodPost, "/admin/actions", body, false, cookie)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
		if resp := decodeResponse(t, rec); resp.Message != want {
			t.Errorf("%s: expected %q, got %q", body, want, resp.Message)
		}
	}
}

func TestDownloadFile(t *testing.T) {
	store, err := clients.NewLocalStorage(t.TempDir(), "/files", "")
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	url, err := store.Publish(context.Background(), "bericht.xlsx", []byte("xlsx"), "")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	stored := filepath.Base(url)
	if _, err := os.Stat(filepath.Join(store.BaseDir, stored)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	ts := newTestServer(t, store)

	rec := ts.do(http.MethodGet, "/files/"+stored, "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "xlsx" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="bericht.xlsx"` {
		t.Errorf("unexpected disposition %q", cd)
	}

	if rec := ts.do(http.MethodGet, "/files/missing.xlsx", "", false); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing file, got %d", rec.Code)
	}
}
