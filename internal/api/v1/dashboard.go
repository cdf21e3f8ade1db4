package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/eventlane/eventlane/internal/cache"
	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/tenant"
)

type DashboardStats struct {
	Events        int64     `json:"events"`
	PublishedNow  int64     `json:"published_now"`
	Registrations int64     `json:"registrations"`
	CheckedIn     int64     `json:"checked_in"`
	FloorPlans    int64     `json:"floor_plans"`
	ActiveMembers int64     `json:"active_members"`
	ComputedAt    time.Time `json:"computed_at"`
}

type DashboardOutput struct {
	Body *DashboardStats
}

// RegisterDashboardRoutes wires the tenant dashboard. It runs on the
// fail-closed facade: every count is pinned to the session tenant, and a
// session without one is rejected before any query runs. Results are cached
// per tenant; the tenant is part of the cache key, so one tenant's stats can
// never serve another's request.
func RegisterDashboardRoutes(api huma.API, ds tenant.Datastore, statsCache *cache.Cache) {
	facade := tenant.NewFacade(ds)

	huma.Register(api, huma.Operation{
		OperationID: "dashboard-stats",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Aggregate stats for the current tenant",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*DashboardOutput, error) {
		tenantID, _ := tenant.IDFromContext(ctx)
		role, _ := tenant.RoleFromContext(ctx)

		scoped, err := facade.For(tenantID, role)
		if err != nil {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		cacheKey := "dashboard:" + tenantID
		if cached, ok := statsCache.Get(cacheKey); ok {
			if stats, ok := cached.(*DashboardStats); ok {
				return &DashboardOutput{Body: stats}, nil
			}
		}

		stats := &DashboardStats{ComputedAt: time.Now()}

		stats.Events, err = scoped.Count(ctx, tenant.EntityEvent, tenant.Args{})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count events", err)
		}

		stats.PublishedNow, err = scoped.Count(ctx, tenant.EntityEvent, tenant.Args{
			Where: map[string]any{"status": string(domain.EventStatusPublished)},
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count published events", err)
		}

		stats.Registrations, err = scoped.Count(ctx, tenant.EntityRegistration, tenant.Args{})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count registrations", err)
		}

		stats.CheckedIn, err = scoped.Count(ctx, tenant.EntityRegistration, tenant.Args{
			Where: map[string]any{"checkedIn": true},
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count check-ins", err)
		}

		stats.FloorPlans, err = scoped.Count(ctx, tenant.EntityFloorPlan, tenant.Args{})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count floor plans", err)
		}

		stats.ActiveMembers, err = scoped.Count(ctx, tenant.EntityMembership, tenant.Args{
			Where: map[string]any{"status": string(domain.MembershipStatusActive)},
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count members", err)
		}

		statsCache.Set(cacheKey, stats)

		return &DashboardOutput{Body: stats}, nil
	})
}
