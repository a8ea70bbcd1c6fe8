package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireTenant refuses any request whose identity is not scoped to a
// tenant. Chained after Auth on every tenant-facing route.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok || id.TenantID == uuid.Nil {
				deny(w, http.StatusForbidden, "tenant scope required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
