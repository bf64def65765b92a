package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/logger"
)

type ctxKey string

const UserIDKey ctxKey = "userID"

type TokenRepository interface {
	FindByPlainToken(ctx context.Context, plainToken string) (*domain.AccessToken, error)
	TouchLastUsed(ctx context.Context, id int64) error
}

// TokenMiddleware resolves the bearer token of a request to its user. Browsers
// cannot set headers on websocket upgrades, so a ?token= query parameter is
// accepted as well.
func TokenMiddleware(tokens TokenRepository, log *logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			plain := bearerToken(r)
			if plain == "" {
				plain = r.URL.Query().Get("token")
			}
			if plain == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			token, err := tokens.FindByPlainToken(r.Context(), plain)
			if err != nil {
				log.Debug("token rejected", "path", r.URL.Path, "err", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if err := tokens.TouchLastUsed(r.Context(), token.ID); err != nil {
				log.Warn("touch token failed", "token_id", token.ID, "err", err)
			}

			ctx := WithUserID(r.Context(), token.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", errors.New("userID not found in context")
	}
	return userID, nil
}
