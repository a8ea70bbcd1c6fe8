package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Email        string
	PasswordHash string // argon2id
	Name         string
	Role         string // "admin", "member", or "viewer"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository is the small persistence surface the auth flow needs.
// Create returns ErrConflict when the tenant already has the email.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
}
