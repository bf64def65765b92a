package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"schuldenfrei/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminCookie = "sf_admin_token"
	adminRole   = "admin"

	devUser = "master"
	devPass = "master"
)

var ErrInvalidSession = errors.New("invalid admin session")

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuth guards the admin panel with a signed session cookie. It is
// independent of user tokens.
type AdminAuth struct {
	user       string
	pass       string
	secret     []byte
	ttl        time.Duration
	production bool
	now        func() time.Time
}

func NewAdminAuth(cfg config.AdminConfig, production bool) *AdminAuth {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &AdminAuth{
		user:       cfg.User,
		pass:       cfg.Pass,
		secret:     []byte(cfg.JWTSecret),
		ttl:        ttl,
		production: production,
		now:        time.Now,
	}
}

// ValidateCredentials accepts master/master outside production only.
func (a *AdminAuth) ValidateCredentials(user, pass string) bool {
	isDev := user == devUser && pass == devPass

	if a.production {
		if a.user == "" || a.pass == "" || isDev {
			return false
		}
		return a.matches(user, pass)
	}

	if isDev {
		return true
	}
	if a.user == "" || a.pass == "" {
		return false
	}
	return a.matches(user, pass)
}

func (a *AdminAuth) matches(user, pass string) bool {
	u := subtle.ConstantTimeCompare([]byte(user), []byte(a.user))
	p := subtle.ConstantTimeCompare([]byte(pass), []byte(a.pass))
	return u&p == 1
}

// IssueToken signs a new admin session.
func (a *AdminAuth) IssueToken() (string, time.Time, error) {
	now := a.now()
	expires := now.Add(a.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, expires, nil
}

func (a *AdminAuth) Verify(raw string) error {
	if raw == "" {
		return ErrInvalidSession
	}

	var claims adminClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Role != adminRole {
		return ErrInvalidSession
	}
	return nil
}

func (a *AdminAuth) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *AdminAuth) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *AdminAuth) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(AdminCookie)
	if err != nil {
		return false
	}
	return a.Verify(c.Value) == nil
}

func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticated(r) {
			http.Error(w, "Nicht autorisiert.", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
