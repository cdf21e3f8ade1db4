package tenant

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultHeader is the propagation header carrying the acting tenant on
// server-to-server and internal calls.
const DefaultHeader = "X-Tenant-ID"

// Resolver extracts the acting tenant from a propagation header. It never
// rejects a request: absent or sentinel values degrade to the configured
// default tenant so non-tenant-aware code paths keep working. Strict
// isolation is enforced downstream by the interception layer, the facade,
// and the verification helpers, not here.
type Resolver struct {
	header        string
	defaultTenant string
}

func NewResolver(header, defaultTenant string) *Resolver {
	if header == "" {
		header = DefaultHeader
	}
	return &Resolver{header: header, defaultTenant: defaultTenant}
}

// Resolve returns the tenant ID from the propagation header, or the default
// tenant when the header is absent, blank, or a serialization sentinel
// ("null", "undefined"). Always returns a non-empty string.
func (r *Resolver) Resolve(h http.Header) string {
	raw := h.Get(r.header)
	v := strings.TrimSpace(raw)
	if v == "" || v == "null" || v == "undefined" {
		log.Warn().
			Str("header", r.header).
			Str("value", raw).
			Str("default", r.defaultTenant).
			Msg("tenant: propagation header missing or invalid, falling back to default tenant")
		return r.defaultTenant
	}
	return v
}

// Default returns the configured default tenant ID.
func (r *Resolver) Default() string {
	return r.defaultTenant
}
