package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/platea/platea/internal/auth"
	"github.com/platea/platea/internal/domain"
)

// AccountView is the public projection of a user; credentials never leave
// the auth package.
type AccountView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

// TokenGrant is the wire shape of an issued token pair.
type TokenGrant struct {
	SessionToken string    `json:"session_token"` //nolint:gosec // G117: auth response DTO
	RenewalToken string    `json:"renewal_token"` //nolint:gosec // G117: auth response DTO
	ExpiresAt    time.Time `json:"expires_at" doc:"Session token expiry"`
}

type SignUpInput struct {
	Body struct {
		TenantSlug string `json:"tenant_slug" minLength:"1" maxLength:"63" doc:"Tenant slug"`
		Email      string `json:"email" minLength:"3" maxLength:"255" doc:"Account email"`
		Password   string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: credential DTO
		Name       string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
	}
}

type SignUpOutput struct {
	Body struct {
		Account AccountView `json:"account"`
		Grant   TokenGrant  `json:"grant"`
	}
}

type SignInInput struct {
	Body struct {
		TenantSlug string `json:"tenant_slug" minLength:"1" maxLength:"63" doc:"Tenant slug"`
		Email      string `json:"email" minLength:"3" maxLength:"255" doc:"Account email"`
		Password   string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: credential DTO
	}
}

type SignInOutput struct {
	Body TokenGrant
}

type RenewInput struct {
	Body struct {
		RenewalToken string `json:"renewal_token" minLength:"1" doc:"Renewal token"` //nolint:gosec // G117: token renewal DTO
	}
}

type RenewOutput struct {
	Body TokenGrant
}

func accountView(u *domain.User) AccountView {
	return AccountView{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func tokenGrant(p *auth.TokenPair) TokenGrant {
	return TokenGrant{
		SessionToken: p.Session,
		RenewalToken: p.Renewal,
		ExpiresAt:    p.SessionExpires,
	}
}

func tenantBySlug(ctx context.Context, store DataStore, slug string) (*domain.Tenant, error) {
	tenant, err := store.Tenants().GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("tenant not found")
		}
		return nil, huma.Error500InternalServerError("failed to look up tenant", err)
	}
	return tenant, nil
}

func RegisterAuthRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "sign-up",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Create an account",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *SignUpInput) (*SignUpOutput, error) {
		tenant, err := tenantBySlug(ctx, store, input.Body.TenantSlug)
		if err != nil {
			return nil, err
		}

		user, err := authSvc.SignUp(ctx, tenant.ID, input.Body.Email, input.Body.Password, input.Body.Name)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				return nil, huma.Error409Conflict("email already registered")
			}
			return nil, huma.Error500InternalServerError("sign-up failed", err)
		}

		pair, err := authSvc.SignIn(ctx, tenant.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("account created but token issue failed", err)
		}

		out := &SignUpOutput{}
		out.Body.Account = accountView(user)
		out.Body.Grant = tokenGrant(pair)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sign-in",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Sign in with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *SignInInput) (*SignInOutput, error) {
		tenant, err := tenantBySlug(ctx, store, input.Body.TenantSlug)
		if err != nil {
			return nil, err
		}

		pair, err := authSvc.SignIn(ctx, tenant.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrBadLogin) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("sign-in failed", err)
		}

		return &SignInOutput{Body: tokenGrant(pair)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "renew-session",
		Method:      http.MethodPost,
		Path:        "/auth/renew",
		Summary:     "Exchange a renewal token for a fresh pair",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RenewInput) (*RenewOutput, error) {
		pair, err := authSvc.Renew(ctx, input.Body.RenewalToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired renewal token")
		}

		return &RenewOutput{Body: tokenGrant(pair)}, nil
	})
}
