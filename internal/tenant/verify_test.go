package tenant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/tenant"
)

// mockMembershipRepo implements domain.MembershipRepository with function
// fields so each test overrides only what it needs.
type mockMembershipRepo struct {
	getFunc func(ctx context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error)
}

func (m *mockMembershipRepo) Create(context.Context, *domain.TenantMembership) error { return nil }

func (m *mockMembershipRepo) Get(ctx context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, tenantID, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMembershipRepo) ListActiveByUser(context.Context, uuid.UUID) ([]*domain.TenantMembership, error) {
	return nil, nil
}

func (m *mockMembershipRepo) ListByTenant(context.Context, string) ([]*domain.TenantMembership, error) {
	return nil, nil
}

func (m *mockMembershipRepo) UpdateRole(context.Context, string, uuid.UUID, string) error {
	return nil
}

func (m *mockMembershipRepo) UpdateStatus(context.Context, string, uuid.UUID, domain.MembershipStatus) error {
	return nil
}

// ---------------------------------------------------------------------------
// VerifyAccess.
// ---------------------------------------------------------------------------

func TestVerifyAccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		ctxTenant      string
		role           string
		resourceTenant string
		wantErr        bool
	}{
		{"same tenant", "acme", domain.RoleMember, "acme", false},
		{"cross tenant", "acme", domain.RoleMember, "beta", true},
		{"no tenant in context", "", domain.RoleMember, "acme", true},
		{"super admin cross tenant", "acme", domain.RoleSuperAdmin, "beta", false},
		{"super admin no tenant", "", domain.RoleSuperAdmin, "beta", false},
		{"owner cross tenant", "acme", domain.RoleOwner, "beta", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			if tt.ctxTenant != "" {
				ctx = tenant.WithTenantID(ctx, tt.ctxTenant)
			}
			if tt.role != "" {
				ctx = tenant.WithRole(ctx, tt.role)
			}

			err := tenant.VerifyAccess(ctx, tt.resourceTenant)
			if tt.wantErr {
				require.ErrorIs(t, err, tenant.ErrAccessDenied)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestVerifyAccess_DistinctFromNotFound guards the sentinel separation:
// handlers map ErrAccessDenied to 404 for cross-tenant IDs, so the two must
// never alias.
func TestVerifyAccess_DistinctFromNotFound(t *testing.T) {
	t.Parallel()

	assert.NotErrorIs(t, tenant.ErrAccessDenied, domain.ErrNotFound)
	assert.NotErrorIs(t, domain.ErrNotFound, tenant.ErrAccessDenied)
}

// ---------------------------------------------------------------------------
// RequireMembershipRole.
// ---------------------------------------------------------------------------

func TestRequireMembershipRole(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	membership := func(role string, status domain.MembershipStatus) *mockMembershipRepo {
		return &mockMembershipRepo{
			getFunc: func(_ context.Context, tenantID string, uid uuid.UUID) (*domain.TenantMembership, error) {
				if tenantID != "acme" || uid != userID {
					return nil, domain.ErrNotFound
				}
				return &domain.TenantMembership{
					TenantID: tenantID,
					UserID:   uid,
					Role:     role,
					Status:   status,
				}, nil
			},
		}
	}

	tests := []struct {
		name    string
		repo    *mockMembershipRepo
		allowed []string
		wantErr bool
	}{
		{
			name:    "owner allowed",
			repo:    membership(domain.RoleOwner, domain.MembershipStatusActive),
			allowed: []string{domain.RoleOwner, domain.RoleTenantAdmin},
			wantErr: false,
		},
		{
			name:    "admin allowed",
			repo:    membership(domain.RoleTenantAdmin, domain.MembershipStatusActive),
			allowed: []string{domain.RoleOwner, domain.RoleTenantAdmin},
			wantErr: false,
		},
		{
			name:    "member rejected",
			repo:    membership(domain.RoleMember, domain.MembershipStatusActive),
			allowed: []string{domain.RoleOwner, domain.RoleTenantAdmin},
			wantErr: true,
		},
		{
			name:    "invited owner rejected",
			repo:    membership(domain.RoleOwner, domain.MembershipStatusInvited),
			allowed: []string{domain.RoleOwner},
			wantErr: true,
		},
		{
			name:    "removed owner rejected",
			repo:    membership(domain.RoleOwner, domain.MembershipStatusRemoved),
			allowed: []string{domain.RoleOwner},
			wantErr: true,
		},
		{
			name:    "no membership",
			repo:    &mockMembershipRepo{},
			allowed: []string{domain.RoleOwner},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := tenant.WithTenantID(context.Background(), "acme")
			ctx = tenant.WithUserID(ctx, userID)
			ctx = tenant.WithRole(ctx, domain.RoleMember)

			err := tenant.RequireMembershipRole(ctx, tt.repo, tt.allowed...)
			if tt.wantErr {
				require.ErrorIs(t, err, tenant.ErrAccessDenied)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRequireMembershipRole_SuperAdminBypass(t *testing.T) {
	t.Parallel()

	repo := &mockMembershipRepo{
		getFunc: func(context.Context, string, uuid.UUID) (*domain.TenantMembership, error) {
			return nil, errors.New("should not be called")
		},
	}

	ctx := tenant.WithRole(context.Background(), domain.RoleSuperAdmin)
	require.NoError(t, tenant.RequireMembershipRole(ctx, repo, domain.RoleOwner))
}

func TestRequireMembershipRole_MissingContext(t *testing.T) {
	t.Parallel()

	repo := &mockMembershipRepo{}

	// No tenant.
	ctx := tenant.WithUserID(context.Background(), uuid.New())
	require.ErrorIs(t, tenant.RequireMembershipRole(ctx, repo, domain.RoleOwner), tenant.ErrAccessDenied)

	// No user.
	ctx = tenant.WithTenantID(context.Background(), "acme")
	require.ErrorIs(t, tenant.RequireMembershipRole(ctx, repo, domain.RoleOwner), tenant.ErrAccessDenied)
}

// ---------------------------------------------------------------------------
// Context helpers.
// ---------------------------------------------------------------------------

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, ok := tenant.IDFromContext(ctx)
	assert.False(t, ok)
	_, ok = tenant.UserIDFromContext(ctx)
	assert.False(t, ok)
	_, ok = tenant.RoleFromContext(ctx)
	assert.False(t, ok)

	userID := uuid.New()
	ctx = tenant.WithTenantID(ctx, "acme")
	ctx = tenant.WithUserID(ctx, userID)
	ctx = tenant.WithRole(ctx, domain.RoleOwner)

	id, ok := tenant.IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "acme", id)

	uid, ok := tenant.UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, userID, uid)

	role, ok := tenant.RoleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, domain.RoleOwner, role)
}

// TestIDFromContext_EmptyIsAbsent: an empty tenant string reports absent so
// fallback logic engages.
func TestIDFromContext_EmptyIsAbsent(t *testing.T) {
	t.Parallel()

	ctx := tenant.WithTenantID(context.Background(), "")
	_, ok := tenant.IDFromContext(ctx)
	assert.False(t, ok)
}
