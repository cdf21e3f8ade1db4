package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Membership role constants. RoleSuperAdmin is not a membership role: it is a
// platform-level role attached to the user account and bypasses tenant
// scoping entirely.
const (
	RoleOwner       = "owner"
	RoleTenantAdmin = "tenant_admin"
	RoleMember      = "member"
	RoleSuperAdmin  = "super_admin"
)

type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusInvited MembershipStatus = "invited"
	MembershipStatusRemoved MembershipStatus = "removed"
)

// TenantMembership links a user to a tenant with a role. Composite-unique on
// (tenant_id, user_id). The user's current-tenant selection lives on the User
// record and must point at a membership in active status.
type TenantMembership struct {
	ID        uuid.UUID
	TenantID  string
	UserID    uuid.UUID
	Role      string
	Status    MembershipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PreferredMembership picks the membership to auto-select as a user's current
// tenant: the first with role owner, else the first tenant_admin, else the
// first membership in store order. Returns nil for an empty slice. Ties on
// equal rank resolve to whichever the store returned first.
func PreferredMembership(memberships []*TenantMembership) *TenantMembership {
	if len(memberships) == 0 {
		return nil
	}

	var admin *TenantMembership
	for _, m := range memberships {
		switch m.Role {
		case RoleOwner:
			return m
		case RoleTenantAdmin:
			if admin == nil {
				admin = m
			}
		}
	}
	if admin != nil {
		return admin
	}

	return memberships[0]
}

type MembershipRepository interface {
	Create(ctx context.Context, m *TenantMembership) error
	Get(ctx context.Context, tenantID string, userID uuid.UUID) (*TenantMembership, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*TenantMembership, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*TenantMembership, error)
	UpdateRole(ctx context.Context, tenantID string, userID uuid.UUID, role string) error
	UpdateStatus(ctx context.Context, tenantID string, userID uuid.UUID, status MembershipStatus) error
}
