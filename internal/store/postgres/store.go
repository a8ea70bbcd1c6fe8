package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/platea/platea/internal/domain"
)

// Store owns the long-lived connection pool and hands out repositories. It is
// constructed once at process start and injected by reference; repositories
// never build per-call clients.
type Store struct {
	pool      *pgxpool.Pool
	tenants   *TenantRepo
	users     *UserRepo
	resources *ResourceRepo
	shifts    *ShiftRepo
	audit     *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:      pool,
		tenants:   NewTenantRepo(pool),
		users:     NewUserRepo(pool),
		resources: NewResourceRepo(pool),
		shifts:    NewShiftRepo(pool),
		audit:     NewAuditRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository     { return s.tenants }
func (s *Store) Users() domain.UserRepository         { return s.users }
func (s *Store) Resources() domain.ResourceRepository { return s.resources }
func (s *Store) Shifts() domain.ShiftRepository       { return s.shifts }
func (s *Store) Audit() domain.AuditRepository        { return s.audit }
