package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventlane/eventlane/internal/domain"
)

// ErrAccessDenied signals a cross-tenant access attempt or an insufficient
// role. It is deliberately distinct from domain.ErrNotFound so handlers can
// return an authorization failure without leaking whether another tenant's
// resource exists.
var ErrAccessDenied = errors.New("tenant: access denied")

// VerifyAccess compares a fetched resource's tenant against the caller's
// active tenant. Super admins bypass the check. This exists for flows that
// fetch by a non-tenant-scoped key (primary key alone) where filter injection
// cannot help: the filter there is additive, not a post-hoc check against an
// already-fetched row.
func VerifyAccess(ctx context.Context, resourceTenantID string) error {
	if role, ok := RoleFromContext(ctx); ok && role == domain.RoleSuperAdmin {
		return nil
	}

	callerTenant, ok := IDFromContext(ctx)
	if !ok || callerTenant != resourceTenantID {
		return ErrAccessDenied
	}

	return nil
}

// RequireMembershipRole fetches the caller's membership role in their current
// tenant and fails with ErrAccessDenied unless it is among the allowed set.
// Super admins pass unconditionally.
func RequireMembershipRole(ctx context.Context, memberships domain.MembershipRepository, allowed ...string) error {
	if role, ok := RoleFromContext(ctx); ok && role == domain.RoleSuperAdmin {
		return nil
	}

	callerTenant, ok := IDFromContext(ctx)
	if !ok {
		return ErrAccessDenied
	}

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return ErrAccessDenied
	}

	m, err := memberships.Get(ctx, callerTenant, userID)
	if err != nil {
		return fmt.Errorf("tenant.RequireMembershipRole: %w", ErrAccessDenied)
	}

	if m.Status != domain.MembershipStatusActive {
		return ErrAccessDenied
	}

	for _, r := range allowed {
		if m.Role == r {
			return nil
		}
	}

	return ErrAccessDenied
}
