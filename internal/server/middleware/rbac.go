package middleware

import (
	"net/http"
	"slices"
)

// Roles a staff account can hold. Admins run the venue, members drive
// shifts, viewers only read.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// RequireRole passes only identities holding one of the allowed roles.
// Chained after Auth.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok || id.Role == "" {
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !slices.Contains(allowed, id.Role) {
				deny(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates venue administration.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(RoleAdmin)
}
