// internal/middleware/auth.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"share-ledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// AccountIDKey is the context key for the authenticated account ID.
	AccountIDKey contextKey = "account_id"
	// UsernameKey is the context key for the authenticated username.
	UsernameKey contextKey = "username"
)

// GetAccountID extracts the authenticated account ID from the context.
// Returns zero if not found.
func GetAccountID(ctx context.Context) int64 {
	accountID, _ := ctx.Value(AccountIDKey).(int64)
	return accountID
}

// GetUsername extracts the authenticated username from the context.
func GetUsername(ctx context.Context) string {
	username, _ := ctx.Value(UsernameKey).(string)
	return username
}

// RequireAuth returns middleware that validates the bearer token and puts the
// current account into the request context. This is the whole identity
// boundary: downstream code only ever sees a resolved account ID.
func RequireAuth(jwtManager *auth.JWTManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken.Error())
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", "error", err)
				unauthorized(w, auth.ErrInvalidToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), AccountIDKey, claims.AccountID)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
