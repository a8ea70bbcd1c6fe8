package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is one restaurant or supplier organization. Every record and every
// operation in the system is scoped to a tenant.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Timezone  string // IANA name, used when rendering shift reports
	Settings  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context) ([]*Tenant, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]*Tenant, error)
}
