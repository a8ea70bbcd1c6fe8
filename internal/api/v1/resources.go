package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/platea/platea/internal/domain"
	"github.com/platea/platea/internal/server/middleware"
)

type CreateResourceInput struct {
	Body struct {
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Resource name"`
		Kind     string `json:"kind" enum:"kitchen_queue,cashier_till,delivery_bay" doc:"Resource kind"`
		Location string `json:"location,omitempty" maxLength:"255" doc:"Physical location"`
	}
}

type CreateResourceOutput struct {
	Body *domain.Resource
}

type ListResourcesInput struct {
	Kind string `query:"kind" enum:"kitchen_queue,cashier_till,delivery_bay," doc:"Filter by resource kind"`
}

type ListResourcesOutput struct {
	Body []*domain.Resource
}

type GetResourceInput struct {
	ID uuid.UUID `path:"id" doc:"Resource ID"`
}

type GetResourceOutput struct {
	Body *domain.Resource
}

type UpdateResourceInput struct {
	ID   uuid.UUID `path:"id" doc:"Resource ID"`
	Body struct {
		Name     string `json:"name,omitempty" maxLength:"255" doc:"Resource name"`
		Location string `json:"location,omitempty" maxLength:"255" doc:"Physical location"`
	}
}

type UpdateResourceOutput struct {
	Body *domain.Resource
}

type DeactivateResourceInput struct {
	ID uuid.UUID `path:"id" doc:"Resource ID"`
}

func RegisterResourceRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-resource",
		Method:      http.MethodPost,
		Path:        "/resources",
		Summary:     "Create a new resource",
		Tags:        []string{"Resources"},
	}, func(ctx context.Context, input *CreateResourceInput) (*CreateResourceOutput, error) {
		ident, ok := middleware.IdentityFrom(ctx)
		if !ok || ident.TenantID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		res, err := domain.NewResource(ident.TenantID, input.Body.Name, domain.ResourceKind(input.Body.Kind), input.Body.Location)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if err := store.Resources().Create(ctx, res); err != nil {
			return nil, huma.Error500InternalServerError("failed to create resource", err)
		}

		return &CreateResourceOutput{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-resources",
		Method:      http.MethodGet,
		Path:        "/resources",
		Summary:     "List resources",
		Tags:        []string{"Resources"},
	}, func(ctx context.Context, input *ListResourcesInput) (*ListResourcesOutput, error) {
		ident, ok := middleware.IdentityFrom(ctx)
		if !ok || ident.TenantID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		var (
			resources []*domain.Resource
			err       error
		)
		if input.Kind != "" {
			resources, err = store.Resources().ListByKind(ctx, ident.TenantID, domain.ResourceKind(input.Kind))
		} else {
			resources, err = store.Resources().List(ctx, ident.TenantID)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list resources", err)
		}

		return &ListResourcesOutput{Body: resources}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-resource",
		Method:      http.MethodGet,
		Path:        "/resources/{id}",
		Summary:     "Get a resource by ID",
		Tags:        []string{"Resources"},
	}, func(ctx context.Context, input *GetResourceInput) (*GetResourceOutput, error) {
		ident, ok := middleware.IdentityFrom(ctx)
		if !ok || ident.TenantID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		res, err := store.Resources().GetByID(ctx, ident.TenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("resource not found")
			}
			return nil, huma.Error500InternalServerError("failed to get resource", err)
		}

		return &GetResourceOutput{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-resource",
		Method:      http.MethodPatch,
		Path:        "/resources/{id}",
		Summary:     "Update a resource",
		Tags:        []string{"Resources"},
	}, func(ctx context.Context, input *UpdateResourceInput) (*UpdateResourceOutput, error) {
		ident, ok := middleware.IdentityFrom(ctx)
		if !ok || ident.TenantID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		res, err := store.Resources().GetByID(ctx, ident.TenantID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("resource not found")
			}
			return nil, huma.Error500InternalServerError("failed to get resource", err)
		}

		if input.Body.Name != "" {
			res.Name = input.Body.Name
		}
		if input.Body.Location != "" {
			res.Location = input.Body.Location
		}
		res.UpdatedAt = time.Now()

		if err := store.Resources().Update(ctx, res); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("resource not found")
			}
			return nil, huma.Error500InternalServerError("failed to update resource", err)
		}

		return &UpdateResourceOutput{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "deactivate-resource",
		Method:        http.MethodDelete,
		Path:          "/resources/{id}",
		Summary:       "Deactivate a resource",
		Tags:          []string{"Resources"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeactivateResourceInput) (*struct{}, error) {
		ident, ok := middleware.IdentityFrom(ctx)
		if !ok || ident.TenantID == uuid.Nil {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if err := store.Resources().Deactivate(ctx, ident.TenantID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("resource not found")
			}
			return nil, huma.Error500InternalServerError("failed to deactivate resource", err)
		}

		return nil, nil
	})
}
