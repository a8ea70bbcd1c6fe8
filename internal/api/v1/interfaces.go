package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/platea/platea/internal/auth"
	"github.com/platea/platea/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Users() domain.UserRepository
	Resources() domain.ResourceRepository
	Shifts() domain.ShiftRepository
	Audit() domain.AuditRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	SignUp(ctx context.Context, tenantID uuid.UUID, email, password, name string) (*domain.User, error)
	SignIn(ctx context.Context, tenantID uuid.UUID, email, password string) (*auth.TokenPair, error)
	Renew(ctx context.Context, renewalToken string) (*auth.TokenPair, error)
}

// ShiftService abstracts the shift lifecycle operations for handler testing.
// *shift.Service satisfies this interface.
type ShiftService interface {
	Start(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error)
	Pause(ctx context.Context, tenantID, resourceID, actorID uuid.UUID, reason string) (*domain.Shift, error)
	Resume(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error)
	Close(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error)
	Current(ctx context.Context, tenantID, resourceID uuid.UUID) (*domain.Shift, error)
	History(ctx context.Context, tenantID, resourceID uuid.UUID, limit, offset int) ([]*domain.Shift, int64, error)
}
