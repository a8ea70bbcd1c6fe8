package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ResourceKind identifies the kind of operational unit a resource is.
type ResourceKind string

const (
	ResourceKindKitchenQueue ResourceKind = "kitchen_queue"
	ResourceKindCashierTill  ResourceKind = "cashier_till"
	ResourceKindDeliveryBay  ResourceKind = "delivery_bay"
)

// Valid reports whether the kind is one of the supported resource kinds.
func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceKindKitchenQueue, ResourceKindCashierTill, ResourceKindDeliveryBay:
		return true
	default:
		return false
	}
}

// Resource is a physical/operational unit that accumulates sequential work
// shifts: a kitchen queue, a cashier till, a delivery bay.
type Resource struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Kind      ResourceKind
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewResource creates a Resource with validated required fields.
func NewResource(tenantID uuid.UUID, name string, kind ResourceKind, location string) (*Resource, error) {
	if tenantID == uuid.Nil {
		return nil, errors.New("resource: tenant ID is required")
	}
	if name == "" {
		return nil, errors.New("resource: name is required")
	}
	if !kind.Valid() {
		return nil, errors.New("resource: unknown kind " + string(kind))
	}

	now := time.Now()
	return &Resource{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Kind:      kind,
		Location:  location,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type ResourceRepository interface {
	Create(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*Resource, error)
	Update(ctx context.Context, r *Resource) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*Resource, error)
	ListByKind(ctx context.Context, tenantID uuid.UUID, kind ResourceKind) ([]*Resource, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
}
