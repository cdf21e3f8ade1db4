package tenant

import "context"

// TenantFunc yields the acting tenant for a request. It is evaluated once per
// datastore call against the request context, so every operation within a
// request sees the same tenant identifier.
type TenantFunc func(ctx context.Context) string

// ContextTenant returns a TenantFunc reading the tenant from the request
// context, degrading to fallback when none is set.
func ContextTenant(fallback string) TenantFunc {
	return func(ctx context.Context) string {
		if id, ok := IDFromContext(ctx); ok {
			return id
		}
		return fallback
	}
}

// Scope wraps a Datastore so every operation against a registered
// tenant-scoped entity passes through Apply before reaching the underlying
// store. This is the last line of defense against a handler that forgets to
// filter by tenant; explicit caller filters are preserved.
func Scope(next Datastore, tenantFor TenantFunc) Datastore {
	return &scoped{next: next, tenantFor: tenantFor}
}

type scoped struct {
	next      Datastore
	tenantFor TenantFunc
}

func (s *scoped) FindMany(ctx context.Context, entity Entity, args Args) ([]Record, error) {
	return s.next.FindMany(ctx, entity, Apply(s.tenantFor(ctx), entity, OpFindMany, args))
}

func (s *scoped) FindFirst(ctx context.Context, entity Entity, args Args) (Record, error) {
	return s.next.FindFirst(ctx, entity, Apply(s.tenantFor(ctx), entity, OpFindFirst, args))
}

func (s *scoped) FindUnique(ctx context.Context, entity Entity, args Args) (Record, error) {
	return s.next.FindUnique(ctx, entity, Apply(s.tenantFor(ctx), entity, OpFindUnique, args))
}

func (s *scoped) Count(ctx context.Context, entity Entity, args Args) (int64, error) {
	return s.next.Count(ctx, entity, Apply(s.tenantFor(ctx), entity, OpCount, args))
}

func (s *scoped) Aggregate(ctx context.Context, entity Entity, fn AggregateFunc, field string, args Args) (float64, error) {
	return s.next.Aggregate(ctx, entity, fn, field, Apply(s.tenantFor(ctx), entity, OpAggregate, args))
}

func (s *scoped) GroupBy(ctx context.Context, entity Entity, column string, args Args) ([]GroupCount, error) {
	return s.next.GroupBy(ctx, entity, column, Apply(s.tenantFor(ctx), entity, OpGroupBy, args))
}

func (s *scoped) Create(ctx context.Context, entity Entity, args Args) (Record, error) {
	return s.next.Create(ctx, entity, Apply(s.tenantFor(ctx), entity, OpCreate, args))
}

func (s *scoped) CreateMany(ctx context.Context, entity Entity, args Args) (int64, error) {
	return s.next.CreateMany(ctx, entity, Apply(s.tenantFor(ctx), entity, OpCreateMany, args))
}

func (s *scoped) Update(ctx context.Context, entity Entity, args Args) (Record, error) {
	return s.next.Update(ctx, entity, Apply(s.tenantFor(ctx), entity, OpUpdate, args))
}

func (s *scoped) UpdateMany(ctx context.Context, entity Entity, args Args) (int64, error) {
	return s.next.UpdateMany(ctx, entity, Apply(s.tenantFor(ctx), entity, OpUpdateMany, args))
}

func (s *scoped) Upsert(ctx context.Context, entity Entity, args Args) (Record, error) {
	return s.next.Upsert(ctx, entity, Apply(s.tenantFor(ctx), entity, OpUpsert, args))
}

func (s *scoped) Delete(ctx context.Context, entity Entity, args Args) error {
	return s.next.Delete(ctx, entity, Apply(s.tenantFor(ctx), entity, OpDelete, args))
}

func (s *scoped) DeleteMany(ctx context.Context, entity Entity, args Args) (int64, error) {
	return s.next.DeleteMany(ctx, entity, Apply(s.tenantFor(ctx), entity, OpDeleteMany, args))
}
