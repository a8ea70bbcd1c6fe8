package v1_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/platea/platea/internal/auth"
	"github.com/platea/platea/internal/domain"
	"github.com/platea/platea/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: install an identity the way the auth middleware would
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	return middleware.WithIdentity(context.Background(), middleware.Identity{TenantID: tenantID})
}

func userCtx(tenantID, userID uuid.UUID) context.Context {
	return roleCtx(tenantID, userID, middleware.RoleMember)
}

func adminCtx(tenantID uuid.UUID) context.Context {
	return roleCtx(tenantID, uuid.New(), middleware.RoleAdmin)
}

func roleCtx(tenantID, userID uuid.UUID, role string) context.Context {
	return middleware.WithIdentity(context.Background(), middleware.Identity{
		TenantID: tenantID,
		UserID:   userID,
		Role:     role,
	})
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants   domain.TenantRepository
	users     domain.UserRepository
	resources domain.ResourceRepository
	shifts    domain.ShiftRepository
	audit     domain.AuditRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository     { return m.tenants }
func (m *mockDataStore) Users() domain.UserRepository         { return m.users }
func (m *mockDataStore) Resources() domain.ResourceRepository { return m.resources }
func (m *mockDataStore) Shifts() domain.ShiftRepository       { return m.shifts }
func (m *mockDataStore) Audit() domain.AuditRepository        { return m.audit }

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc        func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	getBySlugFunc     func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc        func(ctx context.Context, t *domain.Tenant) error
	listFunc          func(ctx context.Context) ([]*domain.Tenant, error)
	listPaginatedFunc func(ctx context.Context, limit, offset int) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	return m.listFunc(ctx)
}

func (m *mockTenantRepo) ListPaginated(ctx context.Context, limit, offset int) ([]*domain.Tenant, error) {
	return m.listPaginatedFunc(ctx, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock ResourceRepository
// ---------------------------------------------------------------------------

type mockResourceRepo struct {
	createFunc     func(ctx context.Context, r *domain.Resource) error
	getByIDFunc    func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Resource, error)
	updateFunc     func(ctx context.Context, r *domain.Resource) error
	listFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Resource, error)
	listByKindFunc func(ctx context.Context, tenantID uuid.UUID, kind domain.ResourceKind) ([]*domain.Resource, error)
	deactivateFunc func(ctx context.Context, tenantID, id uuid.UUID) error
}

func (m *mockResourceRepo) Create(ctx context.Context, r *domain.Resource) error {
	return m.createFunc(ctx, r)
}

func (m *mockResourceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Resource, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockResourceRepo) Update(ctx context.Context, r *domain.Resource) error {
	return m.updateFunc(ctx, r)
}

func (m *mockResourceRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Resource, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockResourceRepo) ListByKind(ctx context.Context, tenantID uuid.UUID, kind domain.ResourceKind) ([]*domain.Resource, error) {
	return m.listByKindFunc(ctx, tenantID, kind)
}

func (m *mockResourceRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.deactivateFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock ShiftService
// ---------------------------------------------------------------------------

type mockShiftService struct {
	startFunc   func(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error)
	pauseFunc   func(ctx context.Context, tenantID, resourceID, actorID uuid.UUID, reason string) (*domain.Shift, error)
	resumeFunc  func(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error)
	closeFunc   func(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error)
	currentFunc func(ctx context.Context, tenantID, resourceID uuid.UUID) (*domain.Shift, error)
	historyFunc func(ctx context.Context, tenantID, resourceID uuid.UUID, limit, offset int) ([]*domain.Shift, int64, error)
}

func (m *mockShiftService) Start(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error) {
	return m.startFunc(ctx, tenantID, resourceID, actorID)
}

func (m *mockShiftService) Pause(ctx context.Context, tenantID, resourceID, actorID uuid.UUID, reason string) (*domain.Shift, error) {
	return m.pauseFunc(ctx, tenantID, resourceID, actorID, reason)
}

func (m *mockShiftService) Resume(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error) {
	return m.resumeFunc(ctx, tenantID, resourceID, actorID)
}

func (m *mockShiftService) Close(ctx context.Context, tenantID, resourceID, actorID uuid.UUID) (*domain.Shift, error) {
	return m.closeFunc(ctx, tenantID, resourceID, actorID)
}

func (m *mockShiftService) Current(ctx context.Context, tenantID, resourceID uuid.UUID) (*domain.Shift, error) {
	return m.currentFunc(ctx, tenantID, resourceID)
}

func (m *mockShiftService) History(ctx context.Context, tenantID, resourceID uuid.UUID, limit, offset int) ([]*domain.Shift, int64, error) {
	return m.historyFunc(ctx, tenantID, resourceID, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	signUpFunc func(ctx context.Context, tenantID uuid.UUID, email, password, name string) (*domain.User, error)
	signInFunc func(ctx context.Context, tenantID uuid.UUID, email, password string) (*auth.TokenPair, error)
	renewFunc  func(ctx context.Context, renewalToken string) (*auth.TokenPair, error)
}

func (m *mockAuthService) SignUp(ctx context.Context, tenantID uuid.UUID, email, password, name string) (*domain.User, error) {
	return m.signUpFunc(ctx, tenantID, email, password, name)
}

func (m *mockAuthService) SignIn(ctx context.Context, tenantID uuid.UUID, email, password string) (*auth.TokenPair, error) {
	return m.signInFunc(ctx, tenantID, email, password)
}

func (m *mockAuthService) Renew(ctx context.Context, renewalToken string) (*auth.TokenPair, error) {
	return m.renewFunc(ctx, renewalToken)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
	listErr error

	gotTenant uuid.UUID
	gotFilter domain.AuditFilter
}

func (m *mockAuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, tenantID uuid.UUID, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotTenant = tenantID
	m.gotFilter = f
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*domain.AuditEntry(nil), m.entries...), nil
}
