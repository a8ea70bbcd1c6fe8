package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Identity is the authenticated caller: which tenant the request is scoped
// to, which staff account is acting, and with what role. Auth stashes one
// per request; the guards and handlers downstream read it back.
type Identity struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     string
}

type identityKey struct{}

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the caller's identity. ok is false on requests that
// never passed through Auth.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// deny writes a problem-style JSON error, matching the shape huma produces
// for handler errors so clients see one format everywhere.
func deny(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"title":%q,"status":%d,"detail":%q}`, http.StatusText(status), status, detail)
}
