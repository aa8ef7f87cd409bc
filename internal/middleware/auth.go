package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	TokenContextKey contextKey = "access_token"

	tokenCookieName = "access_token"
)

// WithToken extracts the visitor's bearer token and adds it to the request
// context. The token comes from the Authorization header or, failing that,
// the access-token cookie. An absent token is fine: the visitor is a guest.
// Validation is the remote backend's job; this service only forwards tokens.
func WithToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), TokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireToken rejects guests with a 401.
func RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetTokenFromContext(r.Context()) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetTokenFromContext returns the bearer token, or "" for guests.
func GetTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(TokenContextKey).(string)
	return token
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}

	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
