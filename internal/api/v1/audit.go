package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/platea/platea/internal/domain"
)

type ListAuditInput struct {
	Resource   string    `query:"resource" maxLength:"64" doc:"Restrict to one resource type, e.g. shift"`
	ResourceID uuid.UUID `query:"resource_id" required:"false" doc:"Restrict to one resource instance"`
	Limit      int       `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Max results"`
	Offset     int       `query:"offset" minimum:"0" default:"0" doc:"Offset for pagination"`
}

type ListAuditOutput struct {
	Body struct {
		Entries []*domain.AuditEntry `json:"entries"`
	}
}

// RegisterAuditRoutes exposes the tenant's audit trail. The router mounts it
// behind the admin role check.
func RegisterAuditRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-entries",
		Method:      http.MethodGet,
		Path:        "/audit",
		Summary:     "List audit log entries",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditInput) (*ListAuditOutput, error) {
		tenantID, _, err := actor(ctx)
		if err != nil {
			return nil, err
		}

		entries, err := store.Audit().List(ctx, tenantID, domain.AuditFilter{
			Resource:   input.Resource,
			ResourceID: input.ResourceID,
			Limit:      input.Limit,
			Offset:     input.Offset,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list audit entries", err)
		}

		out := &ListAuditOutput{}
		out.Body.Entries = entries
		return out, nil
	})
}
