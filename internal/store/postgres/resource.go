package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/platea/platea/internal/domain"
)

type ResourceRepo struct {
	pool *pgxpool.Pool
}

func NewResourceRepo(pool *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{pool: pool}
}

func (r *ResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO resources (id, tenant_id, name, kind, location, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.ID, res.TenantID, res.Name, res.Kind, res.Location, res.Active,
		res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("resourceRepo.Create: %w", err)
	}

	return nil
}

func (r *ResourceRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Resource, error) {
	var res domain.Resource

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, kind, location, active, created_at, updated_at
		 FROM resources WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&res.ID, &res.TenantID, &res.Name, &res.Kind, &res.Location, &res.Active, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resourceRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resourceRepo.GetByID: %w", err)
	}

	return &res, nil
}

func (r *ResourceRepo) Update(ctx context.Context, res *domain.Resource) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE resources SET name = $1, kind = $2, location = $3, active = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		res.Name, res.Kind, res.Location, res.Active,
		res.TenantID, res.ID,
	)
	if err != nil {
		return fmt.Errorf("resourceRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resourceRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ResourceRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, kind, location, active, created_at, updated_at
		 FROM resources WHERE tenant_id = $1
		 ORDER BY name, id
		 LIMIT 1000`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("resourceRepo.List: %w", err)
	}
	defer rows.Close()

	return scanResources(rows, "resourceRepo.List")
}

func (r *ResourceRepo) ListByKind(ctx context.Context, tenantID uuid.UUID, kind domain.ResourceKind) ([]*domain.Resource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, kind, location, active, created_at, updated_at
		 FROM resources WHERE tenant_id = $1 AND kind = $2
		 ORDER BY name, id
		 LIMIT 1000`,
		tenantID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("resourceRepo.ListByKind: %w", err)
	}
	defer rows.Close()

	return scanResources(rows, "resourceRepo.ListByKind")
}

// Deactivate marks the resource inactive instead of deleting it; its shift
// history must stay queryable.
func (r *ResourceRepo) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE resources SET active = FALSE, updated_at = now()
		 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("resourceRepo.Deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resourceRepo.Deactivate: %w", domain.ErrNotFound)
	}

	return nil
}

func scanResources(rows pgx.Rows, caller string) ([]*domain.Resource, error) {
	var resources []*domain.Resource
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(
			&res.ID, &res.TenantID, &res.Name, &res.Kind, &res.Location,
			&res.Active, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		resources = append(resources, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return resources, nil
}
