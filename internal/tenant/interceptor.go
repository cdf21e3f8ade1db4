package tenant

import "maps"

// Op is a data-access operation kind, mirroring the generic datastore surface.
type Op string

const (
	OpFindMany   Op = "findMany"
	OpFindFirst  Op = "findFirst"
	OpFindUnique Op = "findUnique"
	OpCount      Op = "count"
	OpAggregate  Op = "aggregate"
	OpGroupBy    Op = "groupBy"
	OpCreate     Op = "create"
	OpCreateMany Op = "createMany"
	OpUpdate     Op = "update"
	OpUpdateMany Op = "updateMany"
	OpUpsert     Op = "upsert"
	OpDelete     Op = "delete"
	OpDeleteMany Op = "deleteMany"
)

// Ops returns every operation kind the interceptor covers.
func Ops() []Op {
	return []Op{
		OpFindMany, OpFindFirst, OpFindUnique, OpCount, OpAggregate, OpGroupBy,
		OpCreate, OpCreateMany, OpUpdate, OpUpdateMany, OpUpsert,
		OpDelete, OpDeleteMany,
	}
}

// FieldTenantID is the filter/payload field the interceptor injects.
const FieldTenantID = "tenantId"

// Args carries the generic arguments of a datastore operation. Where filters
// reads, updates, upserts and deletes; Data is the create/update payload;
// Batch is the per-element payload of createMany; Create and Update are the
// two branches of upsert.
type Args struct {
	Where   map[string]any
	Data    map[string]any
	Batch   []map[string]any
	Create  map[string]any
	Update  map[string]any
	OrderBy string
	Limit   int
	Offset  int
}

// Apply rewrites args so the operation is constrained to tenantID. Injection
// is additive: a tenantId the caller already supplied is never overridden.
// Non-scoped entities pass through untouched. Maps are copied before
// modification so caller-held argument maps are never mutated.
func Apply(tenantID string, entity Entity, op Op, args Args) Args {
	if !entity.Scoped() {
		return args
	}

	switch op {
	case OpCreate:
		args.Data = withTenant(args.Data, tenantID)
	case OpCreateMany:
		args.Batch = withTenantBatch(args.Batch, tenantID)
	case OpUpsert:
		args.Where = withTenant(args.Where, tenantID)
		args.Create = withTenant(args.Create, tenantID)
	default:
		// Read-like, update-like and delete-like operations all constrain
		// through the filter.
		args.Where = withTenant(args.Where, tenantID)
	}

	return args
}

func withTenant(m map[string]any, tenantID string) map[string]any {
	if _, ok := m[FieldTenantID]; ok {
		return m
	}
	out := make(map[string]any, len(m)+1)
	maps.Copy(out, m)
	out[FieldTenantID] = tenantID
	return out
}

func withTenantBatch(batch []map[string]any, tenantID string) []map[string]any {
	if len(batch) == 0 {
		return batch
	}
	out := make([]map[string]any, len(batch))
	for i, item := range batch {
		out[i] = withTenant(item, tenantID)
	}
	return out
}

// forceTenant pins tenantId to the given value regardless of what the caller
// supplied. Used by the facade, which offers no override escape.
func forceTenant(m map[string]any, tenantID string) map[string]any {
	out := make(map[string]any, len(m)+1)
	maps.Copy(out, m)
	out[FieldTenantID] = tenantID
	return out
}
