package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/platea/platea/internal/domain"
)

const auditDefaultLimit = 50

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: marshal details: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_log (id, tenant_id, actor_type, actor_id, action, resource, resource_id, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.TenantID, entry.ActorType, entry.ActorID,
		entry.Action, entry.Resource, entry.ResourceID,
		details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("auditRepo.Record: %w", err)
	}

	return nil
}

// List builds the WHERE clause from the filter. Zero-value filter fields are
// skipped, so callers get the whole tenant log by default.
func (r *AuditRepo) List(ctx context.Context, tenantID uuid.UUID, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, tenant_id, actor_type, actor_id, action, resource, resource_id, details, created_at
		 FROM audit_log WHERE tenant_id = $1`)
	args := []any{tenantID}

	if f.Resource != "" {
		args = append(args, f.Resource)
		sb.WriteString(" AND resource = $" + strconv.Itoa(len(args)))
	}
	if f.ResourceID != uuid.Nil {
		args = append(args, f.ResourceID)
		sb.WriteString(" AND resource_id = $" + strconv.Itoa(len(args)))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = auditDefaultLimit
	}
	args = append(args, limit)
	sb.WriteString(" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, f.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.List: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var details []byte

		if err := rows.Scan(
			&e.ID, &e.TenantID, &e.ActorType, &e.ActorID, &e.Action,
			&e.Resource, &e.ResourceID, &details, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("auditRepo.List: scan: %w", err)
		}
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("auditRepo.List: unmarshal details: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditRepo.List: rows: %w", err)
	}

	return entries, nil
}
