package tenant

import "context"

// Record is a generic row returned by the datastore, keyed by field name.
type Record = map[string]any

// AggregateFunc names a supported aggregate.
type AggregateFunc string

const (
	AggregateSum AggregateFunc = "sum"
	AggregateAvg AggregateFunc = "avg"
	AggregateMin AggregateFunc = "min"
	AggregateMax AggregateFunc = "max"
)

// GroupCount is one bucket of a GroupBy result.
type GroupCount struct {
	Key   any
	Count int64
}

// Datastore is the generic data-access surface the interception layer wraps.
// *postgres.Collection implements it against real tables; tests use an
// in-memory fake.
type Datastore interface {
	FindMany(ctx context.Context, entity Entity, args Args) ([]Record, error)
	FindFirst(ctx context.Context, entity Entity, args Args) (Record, error)
	FindUnique(ctx context.Context, entity Entity, args Args) (Record, error)
	Count(ctx context.Context, entity Entity, args Args) (int64, error)
	Aggregate(ctx context.Context, entity Entity, fn AggregateFunc, field string, args Args) (float64, error)
	GroupBy(ctx context.Context, entity Entity, column string, args Args) ([]GroupCount, error)
	Create(ctx context.Context, entity Entity, args Args) (Record, error)
	CreateMany(ctx context.Context, entity Entity, args Args) (int64, error)
	Update(ctx context.Context, entity Entity, args Args) (Record, error)
	UpdateMany(ctx context.Context, entity Entity, args Args) (int64, error)
	Upsert(ctx context.Context, entity Entity, args Args) (Record, error)
	Delete(ctx context.Context, entity Entity, args Args) error
	DeleteMany(ctx context.Context, entity Entity, args Args) (int64, error)
}
