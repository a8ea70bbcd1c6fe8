package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/platea/platea/internal/domain"
)

var (
	// ErrBadLogin is the single answer to a wrong email or wrong password,
	// so responses never reveal which half failed.
	ErrBadLogin = errors.New("auth: email or password rejected")
	// ErrEmailTaken means the tenant already has an account for the email.
	ErrEmailTaken = errors.New("auth: email already registered")
)

// TokenPair bundles a session token with the renewal token that outlives it.
type TokenPair struct {
	Session        string
	Renewal        string
	SessionExpires time.Time
}

// Service manages staff accounts and their tokens. New accounts start as
// members; role changes are an admin concern outside this package.
type Service struct {
	users      domain.UserRepository
	secret     []byte
	sessionTTL time.Duration
	renewalTTL time.Duration
}

func NewService(users domain.UserRepository, secret string, sessionTTL, renewalTTL time.Duration) *Service {
	return &Service{
		users:      users,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		renewalTTL: renewalTTL,
	}
}

// SignUp creates a member account under the tenant. Duplicate emails are
// caught by the store's unique constraint, not a racy pre-read.
func (s *Service) SignUp(ctx context.Context, tenantID uuid.UUID, email, password, name string) (*domain.User, error) {
	hash, err := hashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("auth.SignUp: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Name:         name,
		Role:         "member",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("auth.SignUp: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("auth.SignUp: %w", err)
	}

	return user, nil
}

// SignIn checks the credentials and returns a fresh token pair.
func (s *Service) SignIn(ctx context.Context, tenantID uuid.UUID, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, tenantID, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("auth.SignIn: %w", ErrBadLogin)
	}

	if !matchSecret(password, user.PasswordHash) {
		return nil, fmt.Errorf("auth.SignIn: %w", ErrBadLogin)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth.SignIn: %w", err)
	}

	return pair, nil
}

// Renew exchanges a valid renewal token for a fresh pair. The user record is
// re-read so a role change or account removal takes effect on renewal.
func (s *Service) Renew(ctx context.Context, renewalToken string) (*TokenPair, error) {
	grant, err := ParseGrant(s.secret, renewalToken, TokenKindRenewal)
	if err != nil {
		return nil, fmt.Errorf("auth.Renew: %w", err)
	}

	tenantID, userID, err := grant.Actor()
	if err != nil {
		return nil, fmt.Errorf("auth.Renew: %w", err)
	}

	user, err := s.users.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("auth.Renew: %w", ErrBadToken)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, fmt.Errorf("auth.Renew: %w", err)
	}

	return pair, nil
}

func (s *Service) issuePair(user *domain.User) (*TokenPair, error) {
	session, err := SignGrant(s.secret, user, TokenKindSession, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	renewal, err := SignGrant(s.secret, user, TokenKindRenewal, s.renewalTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Session:        session,
		Renewal:        renewal,
		SessionExpires: time.Now().Add(s.sessionTTL),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
