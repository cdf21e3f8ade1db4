package tenant

import (
	"context"
	"errors"

	"github.com/eventlane/eventlane/internal/domain"
)

// ErrTenantRequired is returned when a facade handle is requested without a
// resolvable tenant by a non-privileged caller.
var ErrTenantRequired = errors.New("tenant: tenant required")

// Facade exposes datastore operations pre-bound to an explicit tenant. Unlike
// the ambient Scope decorator it offers no override escape: the bound tenant
// is pinned into every filter and payload. Security-sensitive paths use this
// so tenant scoping cannot be forgotten or silently skipped.
type Facade struct {
	ds Datastore
}

func NewFacade(ds Datastore) *Facade {
	return &Facade{ds: ds}
}

// For returns a handle bound to tenantID. An empty tenantID is a hard error
// unless the caller holds the super-admin role, in which case the handle
// bypasses tenant filtering entirely.
func (f *Facade) For(tenantID, role string) (*Scoped, error) {
	if tenantID == "" && role != domain.RoleSuperAdmin {
		return nil, ErrTenantRequired
	}
	return &Scoped{ds: f.ds, tenantID: tenantID}, nil
}

// Scoped is a facade handle bound to one tenant. An empty tenantID (super
// admin only, enforced by For) disables pinning.
type Scoped struct {
	ds       Datastore
	tenantID string
}

// TenantID returns the bound tenant, empty for a super-admin bypass handle.
func (s *Scoped) TenantID() string {
	return s.tenantID
}

func (s *Scoped) pinWhere(args Args) Args {
	if s.tenantID != "" {
		args.Where = forceTenant(args.Where, s.tenantID)
	}
	return args
}

func (s *Scoped) Find(ctx context.Context, entity Entity, args Args) ([]Record, error) {
	return s.ds.FindMany(ctx, entity, s.pinWhere(args))
}

func (s *Scoped) FindOne(ctx context.Context, entity Entity, args Args) (Record, error) {
	return s.ds.FindFirst(ctx, entity, s.pinWhere(args))
}

func (s *Scoped) Count(ctx context.Context, entity Entity, args Args) (int64, error) {
	return s.ds.Count(ctx, entity, s.pinWhere(args))
}

func (s *Scoped) Create(ctx context.Context, entity Entity, args Args) (Record, error) {
	if s.tenantID != "" {
		args.Data = forceTenant(args.Data, s.tenantID)
	}
	return s.ds.Create(ctx, entity, args)
}

func (s *Scoped) Update(ctx context.Context, entity Entity, args Args) (Record, error) {
	return s.ds.Update(ctx, entity, s.pinWhere(args))
}

func (s *Scoped) Delete(ctx context.Context, entity Entity, args Args) error {
	return s.ds.Delete(ctx, entity, s.pinWhere(args))
}

func (s *Scoped) DeleteMany(ctx context.Context, entity Entity, args Args) (int64, error) {
	return s.ds.DeleteMany(ctx, entity, s.pinWhere(args))
}
