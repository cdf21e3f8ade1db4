package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/eventlane/eventlane/internal/api/v1"
	"github.com/eventlane/eventlane/internal/api/ws"
	"github.com/eventlane/eventlane/internal/auth"
	"github.com/eventlane/eventlane/internal/cache"
	"github.com/eventlane/eventlane/internal/secrets"
	"github.com/eventlane/eventlane/internal/store/postgres"
	"github.com/eventlane/eventlane/internal/tenant"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, scopedDS tenant.Datastore, hub *ws.Hub, statsCache *cache.Cache, vault *secrets.Vault) {
	v1.RegisterSessionRoutes(api, authSvc)
	v1.RegisterTenantRoutes(api, store)
	v1.RegisterMembershipRoutes(api, store)
	v1.RegisterEventRoutes(api, store)
	v1.RegisterFloorPlanRoutes(api, store, hub)
	v1.RegisterRegistrationRoutes(api, store, scopedDS)
	v1.RegisterDashboardRoutes(api, store.Collection(), statsCache)
	v1.RegisterAPIKeyRoutes(api, store, authSvc)

	if vault != nil {
		v1.RegisterIntegrationRoutes(api, store, vault)
	}
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/floor-plans/{floorPlanID}", hub.ServeFloorPlan)
	r.Get("/events/{eventID}", hub.ServeEvent)
}
