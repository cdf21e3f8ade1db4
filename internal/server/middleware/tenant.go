package middleware

import (
	"net/http"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/tenant"
)

// ResolveTenant fills in the acting tenant from the propagation header when
// the session carries none (tenantless JWT, internal service call). Sessions
// that already have a tenant are left untouched, so a caller cannot switch
// tenants by setting the header. Super admins are the exception: the header
// lets them act on behalf of a specific tenant.
func ResolveTenant(resolver *tenant.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, has := tenant.IDFromContext(ctx)
			role, _ := tenant.RoleFromContext(ctx)

			if !has || role == domain.RoleSuperAdmin && r.Header.Get(tenant.DefaultHeader) != "" {
				ctx = tenant.WithTenantID(ctx, resolver.Resolve(r.Header))
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant blocks requests whose context carries no tenant. Chained after
// Auth (and optionally ResolveTenant) on tenant-scoped routes.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.IDFromContext(r.Context())
			if !ok {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid tenant required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
