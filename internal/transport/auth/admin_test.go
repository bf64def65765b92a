package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"schuldenfrei/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func newAdminAuth(production bool, user, pass string) *AdminAuth {
	return NewAdminAuth(config.AdminConfig{
		User:       user,
		Pass:       pass,
		JWTSecret:  "test-secret-with-enough-length-123",
		SessionTTL: 8 * time.Hour,
	}, production)
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		envUser    string
		envPass    string
		user, pass string
		want       bool
	}{
		{"dev master", false, "", "", "master", "master", true},
		{"dev master with env set", false, "root", "s3cret", "master", "master", true},
		{"dev env creds", false, "root", "s3cret", "root", "s3cret", true},
		{"dev wrong pass", false, "root", "s3cret", "root", "nope", false},
		{"dev no env", false, "", "", "root", "s3cret", false},
		{"prod env creds", true, "root", "s3cret", "root", "s3cret", true},
		{"prod master blocked", true, "root", "s3cret", "master", "master", false},
		{"prod master even if configured", true, "master", "master", "master", "master", false},
		{"prod without env", true, "", "", "root", "s3cret", false},
		{"prod wrong user", true, "root", "s3cret", "admin", "s3cret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAdminAuth(tt.production, tt.envUser, tt.envPass)
			if got := a.ValidateCredentials(tt.user, tt.pass); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAdminToken_RoundTrip(t *testing.T) {
	a := newAdminAuth(false, "", "")
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	token, expires, err := a.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expires.Equal(now.Add(8 * time.Hour)) {
		t.Errorf("unexpected expiry %s", expires)
	}
	if err := a.Verify(token); err != nil {
		t.Fatalf("fresh token should verify: %v", err)
	}

	now = now.Add(8*time.Hour + time.Minute)
	if err := a.Verify(token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expired token should fail, got %v", err)
	}
}

func TestAdminToken_Rejects(t *testing.T) {
	a := newAdminAuth(false, "", "")

	other := newAdminAuth(false, "", "")
	other.secret = []byte("another-secret")
	foreign, _, _ := other.IssueToken()

	userClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Role:             "user",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	notAdmin, _ := userClaims.SignedString(a.secret)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, adminClaims{Role: adminRole})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "abc.def.ghi",
		"foreign secret": foreign,
		"wrong role":     notAdmin,
		"alg none":       unsigned,
	} {
		if err := a.Verify(token); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("%s: expected ErrInvalidSession, got %v", name, err)
		}
	}
}

func TestAdminMiddleware(t *testing.T) {
	a := newAdminAuth(true, "root", "s3cret")
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", rec.Code)
	}

	token, expires, err := a.IssueToken()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	login := httptest.NewRecorder()
	a.SetCookie(login, token, expires)

	cookies := login.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != AdminCookie || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("unexpected cookie %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/overview", nil)
	req.AddCookie(c)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with session cookie, got %d", rec.Code)
	}

	logout := httptest.NewRecorder()
	a.ClearCookie(logout)
	if got := logout.Result().Cookies()[0]; got.MaxAge >= 0 || got.Value != "" {
		t.Errorf("logout should expire the cookie, got %+v", got)
	}
}
