package middleware

import (
	"context"
	"cozytown_backend/internal/config"
	"cozytown_backend/pkg/resp"
	"cozytown_backend/pkg/token"
	"log"
	"net/http"
	"strings"
)

type ctxKey struct{}

// Auth - проверяет access токен и кладет ID пользователя в контекст запроса.
// Токен берется из заголовка Authorization: Bearer, для websocket - из ?access_token=
func Auth(cfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing access token")
				return
			}

			claims, err := token.VerifyToken(raw, cfg.AccessTokenSecretKey())
			if err != nil {
				log.Println("auth error:", err)
				resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
				return
			}

			userID, err := token.UserID(claims)
			if err != nil {
				resp.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return r.URL.Query().Get("access_token")
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext - ID пользователя, положенный middleware Auth
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxKey{}).(int)
	return id, ok
}
