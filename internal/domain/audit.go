package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditEntry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ActorType  string // "user", "system"
	ActorID    string
	Action     string // "shift.started", "shift.paused", "resource.created", etc.
	Resource   string // "shift", "resource", "tenant", "user"
	ResourceID uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}

// AuditFilter narrows an audit query. Zero values mean "any"; Limit 0 falls
// back to the repository default.
type AuditFilter struct {
	Resource   string
	ResourceID uuid.UUID
	Limit      int
	Offset     int
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	// List returns the tenant's entries newest-first, narrowed by the filter.
	List(ctx context.Context, tenantID uuid.UUID, f AuditFilter) ([]*AuditEntry, error)
}
