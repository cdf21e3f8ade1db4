package tenant

// Entity identifies a data-access entity kind. The set of constants below is
// closed: adding a new tenant-scoped table means adding a constant here and
// an entry to scopedEntities, so an unregistered kind is a compile-time
// unknown name rather than a silently unscoped string.
type Entity string

const (
	EntityTenant       Entity = "tenant"
	EntityUser         Entity = "user"
	EntityMembership   Entity = "membership"
	EntityEvent        Entity = "event"
	EntitySession      Entity = "session"
	EntitySpeaker      Entity = "speaker"
	EntityRegistration Entity = "registration"
	EntityOrder        Entity = "order"
	EntityTicket       Entity = "ticket"
	EntityVendor       Entity = "vendor"
	EntitySponsor      Entity = "sponsor"
	EntityFloorPlan    Entity = "floor_plan"
	EntitySecret       Entity = "secret"
	EntityAuditEntry   Entity = "audit_entry"
)

// scopedEntities is the registry of entity kinds that carry a mandatory
// tenant identifier. Tenants and users are deliberately absent: tenants are
// the boundary itself and users cross tenants through memberships.
var scopedEntities = map[Entity]struct{}{
	EntityMembership:   {},
	EntityEvent:        {},
	EntitySession:      {},
	EntitySpeaker:      {},
	EntityRegistration: {},
	EntityOrder:        {},
	EntityTicket:       {},
	EntityVendor:       {},
	EntitySponsor:      {},
	EntityFloorPlan:    {},
	EntitySecret:       {},
	EntityAuditEntry:   {},
}

// Scoped reports whether the entity kind is tenant-scoped.
func (e Entity) Scoped() bool {
	_, ok := scopedEntities[e]
	return ok
}

// ScopedEntities returns every registered tenant-scoped entity kind.
func ScopedEntities() []Entity {
	out := make([]Entity, 0, len(scopedEntities))
	for e := range scopedEntities {
		out = append(out, e)
	}
	return out
}
