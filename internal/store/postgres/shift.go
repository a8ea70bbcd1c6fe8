package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/platea/platea/internal/domain"
)

// ShiftRepo stores shift records with their pause intervals embedded as an
// ordered JSONB array. Invariant "at most one open shift per resource" is
// enforced at the persistence boundary by the partial unique index
// shifts_one_open_per_resource (tenant_id, resource_id) WHERE closed_at IS
// NULL; lost races surface as domain.ErrConflict, never as duplicate rows.
type ShiftRepo struct {
	pool *pgxpool.Pool
}

func NewShiftRepo(pool *pgxpool.Pool) *ShiftRepo {
	return &ShiftRepo{pool: pool}
}

const pgUniqueViolation = "23505"

func (r *ShiftRepo) Latest(ctx context.Context, tenantID, resourceID uuid.UUID) (*domain.Shift, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, resource_id, opened_by, started_at, closed_at, pauses, version, created_at
		 FROM shifts WHERE tenant_id = $1 AND resource_id = $2
		 ORDER BY started_at DESC, id DESC
		 LIMIT 1`,
		tenantID, resourceID,
	)

	s, err := scanShift(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("shiftRepo.Latest: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("shiftRepo.Latest: %w", err)
	}

	return s, nil
}

func (r *ShiftRepo) CreateIfNoneOpen(ctx context.Context, s *domain.Shift) error {
	pauses, err := json.Marshal(pausesOrEmpty(s.Pauses))
	if err != nil {
		return fmt.Errorf("shiftRepo.CreateIfNoneOpen: marshal pauses: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO shifts (id, tenant_id, resource_id, opened_by, started_at, closed_at, pauses, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.TenantID, s.ResourceID, s.OpenedBy,
		s.StartedAt, s.ClosedAt, pauses, s.Version, s.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("shiftRepo.CreateIfNoneOpen: open shift exists: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("shiftRepo.CreateIfNoneOpen: %w", err)
	}

	return nil
}

func (r *ShiftRepo) Replace(ctx context.Context, s *domain.Shift) error {
	pauses, err := json.Marshal(pausesOrEmpty(s.Pauses))
	if err != nil {
		return fmt.Errorf("shiftRepo.Replace: marshal pauses: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE shifts SET closed_at = $1, pauses = $2, version = version + 1
		 WHERE tenant_id = $3 AND id = $4 AND version = $5`,
		s.ClosedAt, pauses,
		s.TenantID, s.ID, s.Version,
	)
	if err != nil {
		return fmt.Errorf("shiftRepo.Replace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Stale version, or the record is gone; both mean the caller must
		// re-read before deciding again.
		return fmt.Errorf("shiftRepo.Replace: stale version %d for shift %s: %w", s.Version, s.ID, domain.ErrConflict)
	}

	s.Version++

	return nil
}

func (r *ShiftRepo) History(ctx context.Context, tenantID, resourceID uuid.UUID, limit, offset int) ([]*domain.Shift, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, resource_id, opened_by, started_at, closed_at, pauses, version, created_at
		 FROM shifts WHERE tenant_id = $1 AND resource_id = $2
		 ORDER BY started_at DESC, id DESC
		 LIMIT $3 OFFSET $4`,
		tenantID, resourceID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("shiftRepo.History: %w", err)
	}
	defer rows.Close()

	var shifts []*domain.Shift
	for rows.Next() {
		s, scanErr := scanShift(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("shiftRepo.History: scan: %w", scanErr)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("shiftRepo.History: rows: %w", err)
	}

	return shifts, nil
}

func (r *ShiftRepo) CountByResource(ctx context.Context, tenantID, resourceID uuid.UUID) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM shifts WHERE tenant_id = $1 AND resource_id = $2`,
		tenantID, resourceID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("shiftRepo.CountByResource: %w", err)
	}

	return count, nil
}

func scanShift(row pgx.Row) (*domain.Shift, error) {
	var s domain.Shift
	var pauses []byte

	err := row.Scan(
		&s.ID, &s.TenantID, &s.ResourceID, &s.OpenedBy,
		&s.StartedAt, &s.ClosedAt, &pauses, &s.Version, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(pauses, &s.Pauses); err != nil {
		return nil, fmt.Errorf("unmarshal pauses: %w", err)
	}

	return &s, nil
}

// pausesOrEmpty keeps the stored column a JSON array, never null.
func pausesOrEmpty(pauses []domain.PauseInterval) []domain.PauseInterval {
	if pauses == nil {
		return []domain.PauseInterval{}
	}
	return pauses
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
