package shift_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/platea/platea/internal/domain"
)

// fakeClock hands out a fixed instant and advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeShiftRepo is an in-memory ShiftRepository with the same conditional
// write semantics as the postgres implementation: CreateIfNoneOpen refuses a
// second open shift per resource, Replace refuses a stale version. The
// beforeCreate/beforeReplace hooks run inside the lock so tests can lose a
// write race on purpose.
type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[string][]*domain.Shift // keyed by tenantID+resourceID

	latestCalls  int
	createCalls  int
	replaceCalls int

	beforeCreate  func(calls int) error
	beforeReplace func(calls int, stored *domain.Shift)
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string][]*domain.Shift)}
}

func key(tenantID, resourceID uuid.UUID) string {
	return tenantID.String() + "/" + resourceID.String()
}

func (r *fakeShiftRepo) Latest(ctx context.Context, tenantID, resourceID uuid.UUID) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latestCalls++

	all := r.shifts[key(tenantID, resourceID)]
	if len(all) == 0 {
		return nil, fmt.Errorf("shiftRepo.Latest: %w", domain.ErrNotFound)
	}

	latest := all[0]
	for _, s := range all[1:] {
		if s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}
	return latest.Clone(), nil
}

func (r *fakeShiftRepo) CreateIfNoneOpen(ctx context.Context, s *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++

	if r.beforeCreate != nil {
		if err := r.beforeCreate(r.createCalls); err != nil {
			return err
		}
	}

	k := key(s.TenantID, s.ResourceID)
	for _, existing := range r.shifts[k] {
		if existing.ClosedAt == nil {
			return fmt.Errorf("shiftRepo.CreateIfNoneOpen: %w", domain.ErrConflict)
		}
	}

	r.shifts[k] = append(r.shifts[k], s.Clone())
	return nil
}

func (r *fakeShiftRepo) Replace(ctx context.Context, s *domain.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++

	k := key(s.TenantID, s.ResourceID)
	for i, existing := range r.shifts[k] {
		if existing.ID != s.ID {
			continue
		}
		if r.beforeReplace != nil {
			r.beforeReplace(r.replaceCalls, existing)
		}
		if existing.Version != s.Version {
			return fmt.Errorf("shiftRepo.Replace: %w", domain.ErrConflict)
		}
		next := s.Clone()
		next.Version++
		r.shifts[k][i] = next
		return nil
	}

	return fmt.Errorf("shiftRepo.Replace: %w", domain.ErrNotFound)
}

func (r *fakeShiftRepo) History(ctx context.Context, tenantID, resourceID uuid.UUID, limit, offset int) ([]*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := append([]*domain.Shift(nil), r.shifts[key(tenantID, resourceID)]...)
	sort.Slice(all, func(i, j int) bool { return all[i].StartedAt.After(all[j].StartedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}

	out := make([]*domain.Shift, len(all))
	for i, s := range all {
		out[i] = s.Clone()
	}
	return out, nil
}

func (r *fakeShiftRepo) CountByResource(ctx context.Context, tenantID, resourceID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.shifts[key(tenantID, resourceID)])), nil
}

// mockResourceRepo implements domain.ResourceRepository via function fields.
type mockResourceRepo struct {
	getByIDFunc func(ctx context.Context, tenantID, id uuid.UUID) (*domain.Resource, error)
}

func (m *mockResourceRepo) Create(ctx context.Context, r *domain.Resource) error { return nil }
func (m *mockResourceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Resource, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}
func (m *mockResourceRepo) Update(ctx context.Context, r *domain.Resource) error { return nil }
func (m *mockResourceRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Resource, error) {
	return nil, nil
}
func (m *mockResourceRepo) ListByKind(ctx context.Context, tenantID uuid.UUID, kind domain.ResourceKind) ([]*domain.Resource, error) {
	return nil, nil
}
func (m *mockResourceRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error { return nil }

// fakeAudit collects recorded entries.
type fakeAudit struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
}

func (a *fakeAudit) Record(ctx context.Context, entry *domain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *fakeAudit) List(ctx context.Context, tenantID uuid.UUID, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*domain.AuditEntry(nil), a.entries...), nil
}

func (a *fakeAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

// fakeEvents collects published payloads.
type fakeEvents struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (e *fakeEvents) PublishShiftEvent(ctx context.Context, tenantID, resourceID uuid.UUID, payload []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payloads = append(e.payloads, payload)
	return nil
}
