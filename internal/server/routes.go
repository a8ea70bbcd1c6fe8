package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/platea/platea/internal/api/v1"
	"github.com/platea/platea/internal/api/ws"
	"github.com/platea/platea/internal/auth"
	"github.com/platea/platea/internal/shift"
	"github.com/platea/platea/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, store, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, shiftSvc *shift.Service) {
	v1.RegisterResourceRoutes(api, store)
	v1.RegisterShiftRoutes(api, shiftSvc)
}

func registerAdminRoutes(api huma.API, store *postgres.Store) {
	v1.RegisterTenantRoutes(api, store)
	v1.RegisterAuditRoutes(api, store)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/resources/{resourceID}", hub.ServeResource)
	r.Get("/tenant", hub.ServeTenant)
}
