package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/plan"
	"github.com/eventlane/eventlane/internal/tenant"
)

type ListTenantsInput struct {
	Limit  int `query:"limit" minimum:"1" maximum:"200" default:"50" doc:"Max results"`
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Offset for pagination"`
}

type ListTenantsOutput struct {
	Body []*domain.Tenant
}

type GetTenantInput struct {
	TenantID string `path:"tenantID" doc:"Tenant ID"`
}

type GetTenantOutput struct {
	Body *domain.Tenant
}

type ChangePlanInput struct {
	TenantID string `path:"tenantID" doc:"Tenant ID"`
	Body     struct {
		Plan string `json:"plan" enum:"free,pro,enterprise" doc:"Target plan tier"`
	}
}

type ChangePlanOutput struct {
	Body *domain.Tenant
}

type SetTenantStatusInput struct {
	TenantID string `path:"tenantID" doc:"Tenant ID"`
	Body     struct {
		Status domain.TenantStatus `json:"status" enum:"active,suspended,inactive" doc:"Target status"`
	}
}

type SetTenantStatusOutput struct {
	Body struct {
		ID     string              `json:"id"`
		Status domain.TenantStatus `json:"status"`
	}
}

// RegisterTenantRoutes wires the platform-operator tenant management
// endpoints. Every operation requires a super admin session and records an
// audit entry against the affected tenant.
func RegisterTenantRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/admin/tenants",
		Summary:     "List all tenants",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *ListTenantsInput) (*ListTenantsOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		tenants, err := store.Tenants().ListPaginated(ctx, input.Limit, input.Offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tenants", err)
		}

		return &ListTenantsOutput{Body: tenants}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/admin/tenants/{tenantID}",
		Summary:     "Get a tenant by ID",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		t, err := store.Tenants().GetByID(ctx, input.TenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to fetch tenant", err)
		}

		return &GetTenantOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "change-tenant-plan",
		Method:      http.MethodPut,
		Path:        "/admin/tenants/{tenantID}/plan",
		Summary:     "Change a tenant's plan tier",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *ChangePlanInput) (*ChangePlanOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		limits, err := plan.LimitsFor(input.Body.Plan)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("unknown plan tier")
		}

		t, err := store.Tenants().GetByID(ctx, input.TenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to fetch tenant", err)
		}

		previous := t.Plan
		t.Plan = input.Body.Plan
		t.MaxEvents = limits.MaxEvents
		t.MaxUsers = limits.MaxUsers
		t.MaxStorageMB = limits.MaxStorageMB
		t.UpdatedAt = time.Now()

		if err := store.Tenants().Update(ctx, t); err != nil {
			return nil, huma.Error500InternalServerError("failed to update tenant", err)
		}

		recordAudit(ctx, store, t.ID, "plan_changed", "tenant", map[string]any{
			"from": previous,
			"to":   t.Plan,
		})

		return &ChangePlanOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-tenant-status",
		Method:      http.MethodPut,
		Path:        "/admin/tenants/{tenantID}/status",
		Summary:     "Suspend, reactivate or retire a tenant",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *SetTenantStatusInput) (*SetTenantStatusOutput, error) {
		if err := requireSuperAdmin(ctx); err != nil {
			return nil, err
		}

		if err := store.Tenants().SetStatus(ctx, input.TenantID, input.Body.Status); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to update tenant status", err)
		}

		recordAudit(ctx, store, input.TenantID, "tenant_status_changed", "tenant", map[string]any{
			"status": string(input.Body.Status),
		})

		out := &SetTenantStatusOutput{}
		out.Body.ID = input.TenantID
		out.Body.Status = input.Body.Status
		return out, nil
	})
}

func requireSuperAdmin(ctx context.Context) error {
	role, ok := tenant.RoleFromContext(ctx)
	if !ok || role != domain.RoleSuperAdmin {
		return huma.Error403Forbidden("super admin role required")
	}
	return nil
}

// recordAudit writes an audit entry for a platform/tenant action. Audit
// failures are swallowed: the primary operation has already succeeded.
func recordAudit(ctx context.Context, store DataStore, tenantID, action, resource string, details map[string]any) {
	actorID := ""
	if uid, ok := tenant.UserIDFromContext(ctx); ok {
		actorID = uid.String()
	}

	_ = store.Audit().Record(ctx, &domain.AuditEntry{
		ID:        uuid.New(),
		TenantID:  tenantID,
		ActorType: "user",
		ActorID:   actorID,
		Action:    action,
		Resource:  resource,
		Details:   details,
		CreatedAt: time.Now(),
	})
}
