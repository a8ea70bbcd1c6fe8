// Package auth issues and verifies the credentials that let back-office
// staff drive shifts: argon2id password storage plus short-lived signed
// session tokens with a renewal flow.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/platea/platea/internal/domain"
)

// TokenKind separates the short-lived session token presented on every
// request from the long-lived renewal token that can only mint new sessions.
type TokenKind string

const (
	TokenKindSession TokenKind = "session"
	TokenKindRenewal TokenKind = "renewal"
)

const tokenIssuer = "platea"

// ErrBadToken covers every verification failure: bad signature, expired,
// wrong issuer, wrong kind. Callers get no finer detail on purpose.
var ErrBadToken = errors.New("auth: token rejected")

// Grant is the signed payload of a platea token. The registered subject is
// the user ID; tenant and role travel as private claims so the middleware
// can scope requests without a user lookup.
type Grant struct {
	jwt.RegisteredClaims
	Tenant string    `json:"tnt"`
	Role   string    `json:"rl"`
	Kind   TokenKind `json:"knd"`
}

// Actor decodes the identity claims back into UUIDs.
func (g *Grant) Actor() (tenantID, userID uuid.UUID, err error) {
	tenantID, err = uuid.Parse(g.Tenant)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("auth: grant tenant: %w", ErrBadToken)
	}

	userID, err = uuid.Parse(g.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("auth: grant subject: %w", ErrBadToken)
	}

	return tenantID, userID, nil
}

// SignGrant mints a signed HS256 token of the given kind for the user.
func SignGrant(secret []byte, u *domain.User, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	grant := Grant{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Tenant: u.TenantID.String(),
		Role:   u.Role,
		Kind:   kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, grant).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth.SignGrant: %w", err)
	}

	return signed, nil
}

// ParseGrant verifies signature, expiry and issuer, and insists on the
// expected token kind so a renewal token can never pass as a session.
func ParseGrant(secret []byte, raw string, want TokenKind) (*Grant, error) {
	grant := &Grant{}

	tok, err := jwt.ParseWithClaims(raw, grant,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("auth.ParseGrant: %w", ErrBadToken)
	}

	if grant.Kind != want {
		return nil, fmt.Errorf("auth.ParseGrant: %s token where %s expected: %w", grant.Kind, want, ErrBadToken)
	}

	return grant, nil
}
