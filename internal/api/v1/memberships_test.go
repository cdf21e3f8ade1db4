package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/eventlane/eventlane/internal/api/v1"
	"github.com/eventlane/eventlane/internal/domain"
)

// inviteMemberships returns a membership repo where the caller holds the
// given role and the invitee has no membership yet.
func inviteMemberships(caller uuid.UUID, role string, existing []*domain.TenantMembership, created **domain.TenantMembership) *mockMembershipRepo {
	return &mockMembershipRepo{
		getFunc: func(_ context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
			if userID == caller {
				return &domain.TenantMembership{
					TenantID: tenantID,
					UserID:   userID,
					Role:     role,
					Status:   domain.MembershipStatusActive,
				}, nil
			}
			return nil, domain.ErrNotFound
		},
		listByTenantFunc: func(_ context.Context, _ string) ([]*domain.TenantMembership, error) {
			return existing, nil
		},
		createFunc: func(_ context.Context, m *domain.TenantMembership) error {
			*created = m
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// GET /me/memberships
// ---------------------------------------------------------------------------

func TestListMyMemberships(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: &mockMembershipRepo{
				listActiveByUserFunc: func(_ context.Context, uid uuid.UUID) ([]*domain.TenantMembership, error) {
					assert.Equal(t, userID, uid)
					return []*domain.TenantMembership{
						{TenantID: "acme", UserID: uid, Role: domain.RoleOwner, Status: domain.MembershipStatusActive},
						{TenantID: "beta", UserID: uid, Role: domain.RoleMember, Status: domain.MembershipStatusActive},
					}, nil
				},
			},
		}
		v1.RegisterMembershipRoutes(api, store)

		resp := api.GetCtx(memberCtx("acme", userID), "/me/memberships")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.TenantMembership
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body, 2)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterMembershipRoutes(api, &mockDataStore{})

		resp := api.Get("/me/memberships")

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /members
// ---------------------------------------------------------------------------

func TestInviteMember(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		caller := uuid.New()
		invitee := &domain.User{ID: uuid.New(), Email: "bob@example.com", Name: "Bob"}
		var created *domain.TenantMembership
		audit := &mockAuditRepo{}

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: inviteMemberships(caller, domain.RoleOwner, nil, &created),
			tenants: &mockTenantRepo{
				getByIDFunc: func(_ context.Context, id string) (*domain.Tenant, error) {
					return freeTenant(id), nil
				},
			},
			users: &mockUserRepo{
				getByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
					assert.Equal(t, "bob@example.com", email)
					return invitee, nil
				},
			},
			audit: audit,
		}
		v1.RegisterMembershipRoutes(api, store)

		resp := api.PostCtx(adminCtx("acme", caller), "/members", map[string]any{
			"email": "bob@example.com",
			"role":  domain.RoleMember,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, "acme", created.TenantID)
		assert.Equal(t, invitee.ID, created.UserID)
		assert.Equal(t, domain.MembershipStatusInvited, created.Status)

		require.Len(t, audit.entries, 1)
		assert.Equal(t, "member_invited", audit.entries[0].Action)
	})

	t.Run("user_quota_exceeded", func(t *testing.T) {
		t.Parallel()

		caller := uuid.New()
		// free tier allows 5 members
		existing := make([]*domain.TenantMembership, 5)
		for i := range existing {
			existing[i] = &domain.TenantMembership{TenantID: "acme", UserID: uuid.New()}
		}

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: inviteMemberships(caller, domain.RoleOwner, existing, new(*domain.TenantMembership)),
			tenants: &mockTenantRepo{
				getByIDFunc: func(_ context.Context, id string) (*domain.Tenant, error) {
					return freeTenant(id), nil
				},
			},
		}
		v1.RegisterMembershipRoutes(api, store)

		resp := api.PostCtx(adminCtx("acme", caller), "/members", map[string]any{
			"email": "bob@example.com",
			"role":  domain.RoleMember,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Contains(t, resp.Body.String(), "quota")
	})

	t.Run("already_a_member", func(t *testing.T) {
		t.Parallel()

		caller := uuid.New()
		invitee := &domain.User{ID: uuid.New(), Email: "bob@example.com"}

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
					return &domain.TenantMembership{
						TenantID: tenantID,
						UserID:   userID,
						Role:     domain.RoleOwner,
						Status:   domain.MembershipStatusActive,
					}, nil
				},
				listByTenantFunc: func(_ context.Context, _ string) ([]*domain.TenantMembership, error) {
					return nil, nil
				},
			},
			tenants: &mockTenantRepo{
				getByIDFunc: func(_ context.Context, id string) (*domain.Tenant, error) {
					return freeTenant(id), nil
				},
			},
			users: &mockUserRepo{
				getByEmailFunc: func(_ context.Context, _ string) (*domain.User, error) {
					return invitee, nil
				},
			},
		}
		v1.RegisterMembershipRoutes(api, store)

		resp := api.PostCtx(adminCtx("acme", caller), "/members", map[string]any{
			"email": "bob@example.com",
			"role":  domain.RoleMember,
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("member_cannot_invite", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: activeMemberships(domain.RoleMember),
		}
		v1.RegisterMembershipRoutes(api, store)

		resp := api.PostCtx(memberCtx("acme", uuid.New()), "/members", map[string]any{
			"email": "bob@example.com",
			"role":  domain.RoleMember,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// PUT /members/{userID}/role
// ---------------------------------------------------------------------------

func TestChangeMemberRole(t *testing.T) {
	t.Parallel()

	t.Run("owner_promotes_member", func(t *testing.T) {
		t.Parallel()

		caller := uuid.New()
		target := uuid.New()
		var updatedRole string

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
					role := domain.RoleMember
					if userID == caller {
						role = domain.RoleOwner
					}
					return &domain.TenantMembership{
						TenantID: tenantID,
						UserID:   userID,
						Role:     role,
						Status:   domain.MembershipStatusActive,
					}, nil
				},
				updateRoleFunc: func(_ context.Context, _ string, _ uuid.UUID, role string) error {
					updatedRole = role
					return nil
				},
			},
			audit: &mockAuditRepo{},
		}
		v1.RegisterMembershipRoutes(api, store)

		ctx := tenantCtx("acme")
		ctx = withUser(ctx, caller, domain.RoleOwner)
		resp := api.PutCtx(ctx, "/members/"+target.String()+"/role", map[string]any{
			"role": domain.RoleTenantAdmin,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, domain.RoleTenantAdmin, updatedRole)
	})

	t.Run("admin_cannot_change_roles", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: activeMemberships(domain.RoleTenantAdmin),
		}
		v1.RegisterMembershipRoutes(api, store)

		resp := api.PutCtx(adminCtx("acme", uuid.New()), "/members/"+uuid.NewString()+"/role", map[string]any{
			"role": domain.RoleMember,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("owner_role_is_immutable", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: activeMemberships(domain.RoleOwner),
		}
		v1.RegisterMembershipRoutes(api, store)

		ctx := tenantCtx("acme")
		ctx = withUser(ctx, uuid.New(), domain.RoleOwner)
		resp := api.PutCtx(ctx, "/members/"+uuid.NewString()+"/role", map[string]any{
			"role": domain.RoleMember,
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Contains(t, resp.Body.String(), "owner role cannot be reassigned")
	})
}

// ---------------------------------------------------------------------------
// DELETE /members/{userID}
// ---------------------------------------------------------------------------

func TestRemoveMember(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		caller := uuid.New()
		target := uuid.New()
		var removedStatus domain.MembershipStatus

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: &mockMembershipRepo{
				getFunc: func(_ context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
					role := domain.RoleMember
					if userID == caller {
						role = domain.RoleTenantAdmin
					}
					return &domain.TenantMembership{
						TenantID: tenantID,
						UserID:   userID,
						Role:     role,
						Status:   domain.MembershipStatusActive,
					}, nil
				},
				updateStatusFunc: func(_ context.Context, _ string, uid uuid.UUID, status domain.MembershipStatus) error {
					assert.Equal(t, target, uid)
					removedStatus = status
					return nil
				},
			},
			audit: &mockAuditRepo{},
		}
		v1.RegisterMembershipRoutes(api, store)

		resp := api.DeleteCtx(adminCtx("acme", caller), "/members/"+target.String())

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, domain.MembershipStatusRemoved, removedStatus)
	})

	t.Run("owner_cannot_be_removed", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			memberships: activeMemberships(domain.RoleOwner),
		}
		v1.RegisterMembershipRoutes(api, store)

		ctx := tenantCtx("acme")
		ctx = withUser(ctx, uuid.New(), domain.RoleOwner)
		resp := api.DeleteCtx(ctx, "/members/"+uuid.NewString())

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Contains(t, resp.Body.String(), "owner cannot be removed")
	})
}
