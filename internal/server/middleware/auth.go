package middleware

import (
	"net/http"
	"strings"

	"github.com/platea/platea/internal/auth"
)

// Auth verifies the Bearer session token and installs the caller's Identity
// in the request context. Renewal tokens are refused here; they are only
// good at the renew endpoint.
func Auth(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				deny(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			grant, err := auth.ParseGrant(key, raw, auth.TokenKindSession)
			if err != nil {
				deny(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			tenantID, userID, err := grant.Actor()
			if err != nil {
				deny(w, http.StatusUnauthorized, "missing or invalid credentials")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				TenantID: tenantID,
				UserID:   userID,
				Role:     grant.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}
