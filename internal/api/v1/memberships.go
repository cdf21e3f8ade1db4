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

type ListMyMembershipsOutput struct {
	Body []*domain.TenantMembership
}

type ListMembersOutput struct {
	Body []*domain.TenantMembership
}

type InviteMemberInput struct {
	Body struct {
		Email string `json:"email" minLength:"3" maxLength:"255" doc:"Email of the user to invite"`
		Role  string `json:"role" enum:"tenant_admin,member" doc:"Role to grant"`
	}
}

type InviteMemberOutput struct {
	Body *domain.TenantMembership
}

type ChangeMemberRoleInput struct {
	UserID uuid.UUID `path:"userID" doc:"Member user ID"`
	Body   struct {
		Role string `json:"role" enum:"tenant_admin,member" doc:"New role"`
	}
}

type ChangeMemberRoleOutput struct {
	Body struct {
		UserID uuid.UUID `json:"user_id"`
		Role   string    `json:"role"`
	}
}

type RemoveMemberInput struct {
	UserID uuid.UUID `path:"userID" doc:"Member user ID"`
}

type RemoveMemberOutput struct {
	Body struct {
		Removed bool `json:"removed"`
	}
}

func RegisterMembershipRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-my-memberships",
		Method:      http.MethodGet,
		Path:        "/me/memberships",
		Summary:     "List the tenants the caller belongs to",
		Tags:        []string{"Memberships"},
	}, func(ctx context.Context, _ *struct{}) (*ListMyMembershipsOutput, error) {
		userID, ok := tenant.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		memberships, err := store.Memberships().ListActiveByUser(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list memberships", err)
		}

		return &ListMyMembershipsOutput{Body: memberships}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-members",
		Method:      http.MethodGet,
		Path:        "/members",
		Summary:     "List members of the current tenant",
		Tags:        []string{"Memberships"},
	}, func(ctx context.Context, _ *struct{}) (*ListMembersOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		members, err := store.Memberships().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		return &ListMembersOutput{Body: members}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "invite-member",
		Method:      http.MethodPost,
		Path:        "/members",
		Summary:     "Invite an existing user into the current tenant",
		Tags:        []string{"Memberships"},
	}, func(ctx context.Context, input *InviteMemberInput) (*InviteMemberOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		t, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load tenant", err)
		}

		limits, err := plan.LimitsFor(t.Plan)
		if err != nil {
			return nil, huma.Error500InternalServerError("tenant carries unknown plan tier", err)
		}

		members, err := store.Memberships().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count members", err)
		}

		if err := limits.CheckUserQuota(int64(len(members))); err != nil {
			return nil, huma.Error403Forbidden("member quota exceeded for plan " + t.Plan)
		}

		user, err := store.Users().GetByEmail(ctx, input.Body.Email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("no user with that email")
			}
			return nil, huma.Error500InternalServerError("failed to look up user", err)
		}

		if _, err := store.Memberships().Get(ctx, tenantID, user.ID); err == nil {
			return nil, huma.Error409Conflict("user is already a member")
		}

		now := time.Now()
		m := &domain.TenantMembership{
			ID:        uuid.New(),
			TenantID:  tenantID,
			UserID:    user.ID,
			Role:      input.Body.Role,
			Status:    domain.MembershipStatusInvited,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Memberships().Create(ctx, m); err != nil {
			return nil, huma.Error500InternalServerError("failed to create membership", err)
		}

		recordAudit(ctx, store, tenantID, "member_invited", "membership", map[string]any{
			"user_id": user.ID.String(),
			"role":    m.Role,
		})

		return &InviteMemberOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "change-member-role",
		Method:      http.MethodPut,
		Path:        "/members/{userID}/role",
		Summary:     "Change a member's role in the current tenant",
		Tags:        []string{"Memberships"},
	}, func(ctx context.Context, input *ChangeMemberRoleInput) (*ChangeMemberRoleOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner); err != nil {
			return nil, huma.Error403Forbidden("owner role required")
		}

		m, err := store.Memberships().Get(ctx, tenantID, input.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("membership not found")
			}
			return nil, huma.Error500InternalServerError("failed to fetch membership", err)
		}

		if m.Role == domain.RoleOwner {
			return nil, huma.Error403Forbidden("the owner role cannot be reassigned here")
		}

		if err := store.Memberships().UpdateRole(ctx, tenantID, input.UserID, input.Body.Role); err != nil {
			return nil, huma.Error500InternalServerError("failed to update role", err)
		}

		recordAudit(ctx, store, tenantID, "member_role_changed", "membership", map[string]any{
			"user_id": input.UserID.String(),
			"from":    m.Role,
			"to":      input.Body.Role,
		})

		out := &ChangeMemberRoleOutput{}
		out.Body.UserID = input.UserID
		out.Body.Role = input.Body.Role
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-member",
		Method:      http.MethodDelete,
		Path:        "/members/{userID}",
		Summary:     "Remove a member from the current tenant",
		Tags:        []string{"Memberships"},
	}, func(ctx context.Context, input *RemoveMemberInput) (*RemoveMemberOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		m, err := store.Memberships().Get(ctx, tenantID, input.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("membership not found")
			}
			return nil, huma.Error500InternalServerError("failed to fetch membership", err)
		}

		if m.Role == domain.RoleOwner {
			return nil, huma.Error403Forbidden("the owner cannot be removed")
		}

		if err := store.Memberships().UpdateStatus(ctx, tenantID, input.UserID, domain.MembershipStatusRemoved); err != nil {
			return nil, huma.Error500InternalServerError("failed to remove member", err)
		}

		recordAudit(ctx, store, tenantID, "member_removed", "membership", map[string]any{
			"user_id": input.UserID.String(),
		})

		out := &RemoveMemberOutput{}
		out.Body.Removed = true
		return out, nil
	})
}
