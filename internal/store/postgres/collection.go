package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/tenant"
)

// entityTables maps entity kinds to their table names. Plural names keep
// "order" out of the SQL (reserved word).
var entityTables = map[tenant.Entity]string{
	tenant.EntityTenant:       "tenants",
	tenant.EntityUser:         "users",
	tenant.EntityMembership:   "memberships",
	tenant.EntityEvent:        "events",
	tenant.EntitySession:      "sessions",
	tenant.EntitySpeaker:      "speakers",
	tenant.EntityRegistration: "registrations",
	tenant.EntityOrder:        "orders",
	tenant.EntityTicket:       "tickets",
	tenant.EntityVendor:       "vendors",
	tenant.EntitySponsor:      "sponsors",
	tenant.EntityFloorPlan:    "floor_plans",
	tenant.EntitySecret:       "secrets",
	tenant.EntityAuditEntry:   "audit_entries",
}

var supportedAggregates = map[tenant.AggregateFunc]struct{}{
	tenant.AggregateSum: {},
	tenant.AggregateAvg: {},
	tenant.AggregateMin: {},
	tenant.AggregateMax: {},
}

// Collection is a generic datastore over the registered entity tables.
// Filter and payload keys arrive in camelCase and are mapped to snake_case
// columns; SQL is built with sorted keys so identical arguments always
// produce identical statements.
type Collection struct {
	pool *pgxpool.Pool
}

func NewCollection(pool *pgxpool.Pool) *Collection {
	return &Collection{pool: pool}
}

var _ tenant.Datastore = (*Collection)(nil)

func (c *Collection) FindMany(ctx context.Context, entity tenant.Entity, args tenant.Args) ([]tenant.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, fmt.Errorf("collection.FindMany: %w", err)
	}

	where, params, err := buildWhere(args.Where, 1)
	if err != nil {
		return nil, fmt.Errorf("collection.FindMany: %w", err)
	}

	query := "SELECT * FROM " + table + where
	if args.OrderBy != "" {
		col, err := columnFor(args.OrderBy)
		if err != nil {
			return nil, fmt.Errorf("collection.FindMany: %w", err)
		}
		query += " ORDER BY " + col
	}
	if args.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", args.Limit)
	}
	if args.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", args.Offset)
	}

	rows, err := c.pool.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("collection.FindMany: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collection.FindMany: collect: %w", err)
	}

	return records, nil
}

func (c *Collection) FindFirst(ctx context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	args.Limit = 1

	records, err := c.FindMany(ctx, entity, args)
	if err != nil {
		return nil, fmt.Errorf("collection.FindFirst: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("collection.FindFirst: %w", domain.ErrNotFound)
	}

	return records[0], nil
}

func (c *Collection) FindUnique(ctx context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, fmt.Errorf("collection.FindUnique: %w", err)
	}

	where, params, err := buildWhere(args.Where, 1)
	if err != nil {
		return nil, fmt.Errorf("collection.FindUnique: %w", err)
	}

	rows, err := c.pool.Query(ctx, "SELECT * FROM "+table+where+" LIMIT 2", params...)
	if err != nil {
		return nil, fmt.Errorf("collection.FindUnique: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collection.FindUnique: collect: %w", err)
	}

	switch len(records) {
	case 0:
		return nil, fmt.Errorf("collection.FindUnique: %w", domain.ErrNotFound)
	case 1:
		return records[0], nil
	default:
		return nil, fmt.Errorf("collection.FindUnique: filter matched multiple rows in %s", table)
	}
}

func (c *Collection) Count(ctx context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	table, err := tableFor(entity)
	if err != nil {
		return 0, fmt.Errorf("collection.Count: %w", err)
	}

	where, params, err := buildWhere(args.Where, 1)
	if err != nil {
		return 0, fmt.Errorf("collection.Count: %w", err)
	}

	var count int64
	err = c.pool.QueryRow(ctx, "SELECT count(*) FROM "+table+where, params...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("collection.Count: %w", err)
	}

	return count, nil
}

func (c *Collection) Aggregate(ctx context.Context, entity tenant.Entity, fn tenant.AggregateFunc, field string, args tenant.Args) (float64, error) {
	table, err := tableFor(entity)
	if err != nil {
		return 0, fmt.Errorf("collection.Aggregate: %w", err)
	}

	if _, ok := supportedAggregates[fn]; !ok {
		return 0, fmt.Errorf("collection.Aggregate: unsupported aggregate %q", fn)
	}

	col, err := columnFor(field)
	if err != nil {
		return 0, fmt.Errorf("collection.Aggregate: %w", err)
	}

	where, params, err := buildWhere(args.Where, 1)
	if err != nil {
		return 0, fmt.Errorf("collection.Aggregate: %w", err)
	}

	var result float64
	err = c.pool.QueryRow(ctx,
		"SELECT coalesce("+string(fn)+"("+col+"), 0) FROM "+table+where,
		params...,
	).Scan(&result)
	if err != nil {
		return 0, fmt.Errorf("collection.Aggregate: %w", err)
	}

	return result, nil
}

func (c *Collection) GroupBy(ctx context.Context, entity tenant.Entity, column string, args tenant.Args) ([]tenant.GroupCount, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, fmt.Errorf("collection.GroupBy: %w", err)
	}

	col, err := columnFor(column)
	if err != nil {
		return nil, fmt.Errorf("collection.GroupBy: %w", err)
	}

	where, params, err := buildWhere(args.Where, 1)
	if err != nil {
		return nil, fmt.Errorf("collection.GroupBy: %w", err)
	}

	rows, err := c.pool.Query(ctx,
		"SELECT "+col+", count(*) FROM "+table+where+" GROUP BY "+col+" ORDER BY "+col,
		params...,
	)
	if err != nil {
		return nil, fmt.Errorf("collection.GroupBy: %w", err)
	}
	defer rows.Close()

	var groups []tenant.GroupCount
	for rows.Next() {
		var g tenant.GroupCount

		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, fmt.Errorf("collection.GroupBy: scan: %w", err)
		}

		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collection.GroupBy: rows: %w", err)
	}

	return groups, nil
}

func (c *Collection) Create(ctx context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	record, err := c.insert(ctx, entity, args.Data)
	if err != nil {
		return nil, fmt.Errorf("collection.Create: %w", err)
	}

	return record, nil
}

func (c *Collection) CreateMany(ctx context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	if len(args.Batch) == 0 {
		return 0, nil
	}

	table, err := tableFor(entity)
	if err != nil {
		return 0, fmt.Errorf("collection.CreateMany: %w", err)
	}

	// All batch elements share the first element's key set; the interception
	// layer guarantees tenantId is present on every one.
	keys := sortedKeys(args.Batch[0])

	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i], err = columnFor(k)
		if err != nil {
			return 0, fmt.Errorf("collection.CreateMany: %w", err)
		}
	}

	var (
		tuples = make([]string, 0, len(args.Batch))
		params = make([]any, 0, len(args.Batch)*len(keys))
	)
	for _, item := range args.Batch {
		placeholders := make([]string, len(keys))
		for i, k := range keys {
			params = append(params, item[k])
			placeholders[i] = fmt.Sprintf("$%d", len(params))
		}
		tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
	}

	tag, err := c.pool.Exec(ctx,
		"INSERT INTO "+table+" ("+strings.Join(cols, ", ")+") VALUES "+strings.Join(tuples, ", "),
		params...,
	)
	if err != nil {
		return 0, fmt.Errorf("collection.CreateMany: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (c *Collection) Update(ctx context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	record, err := c.update(ctx, entity, args.Where, args.Data)
	if err != nil {
		return nil, fmt.Errorf("collection.Update: %w", err)
	}

	return record, nil
}

func (c *Collection) UpdateMany(ctx context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	table, err := tableFor(entity)
	if err != nil {
		return 0, fmt.Errorf("collection.UpdateMany: %w", err)
	}

	set, params, err := buildSet(args.Data, 1)
	if err != nil {
		return 0, fmt.Errorf("collection.UpdateMany: %w", err)
	}

	where, whereParams, err := buildWhere(args.Where, len(params)+1)
	if err != nil {
		return 0, fmt.Errorf("collection.UpdateMany: %w", err)
	}
	params = append(params, whereParams...)

	tag, err := c.pool.Exec(ctx, "UPDATE "+table+" SET "+set+where, params...)
	if err != nil {
		return 0, fmt.Errorf("collection.UpdateMany: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Upsert updates the row matching Where with the Update payload, falling back
// to inserting the Create payload when no row matched.
func (c *Collection) Upsert(ctx context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	record, err := c.update(ctx, entity, args.Where, args.Update)
	if errors.Is(err, domain.ErrNotFound) {
		record, err = c.insert(ctx, entity, args.Create)
		if err != nil {
			return nil, fmt.Errorf("collection.Upsert: %w", err)
		}
		return record, nil
	}
	if err != nil {
		return nil, fmt.Errorf("collection.Upsert: %w", err)
	}

	return record, nil
}

func (c *Collection) Delete(ctx context.Context, entity tenant.Entity, args tenant.Args) error {
	table, err := tableFor(entity)
	if err != nil {
		return fmt.Errorf("collection.Delete: %w", err)
	}

	where, params, err := buildWhere(args.Where, 1)
	if err != nil {
		return fmt.Errorf("collection.Delete: %w", err)
	}
	if where == "" {
		return fmt.Errorf("collection.Delete: refusing to delete without a filter")
	}

	tag, err := c.pool.Exec(ctx, "DELETE FROM "+table+where, params...)
	if err != nil {
		return fmt.Errorf("collection.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("collection.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (c *Collection) DeleteMany(ctx context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	table, err := tableFor(entity)
	if err != nil {
		return 0, fmt.Errorf("collection.DeleteMany: %w", err)
	}

	where, params, err := buildWhere(args.Where, 1)
	if err != nil {
		return 0, fmt.Errorf("collection.DeleteMany: %w", err)
	}
	if where == "" {
		return 0, fmt.Errorf("collection.DeleteMany: refusing to delete without a filter")
	}

	tag, err := c.pool.Exec(ctx, "DELETE FROM "+table+where, params...)
	if err != nil {
		return 0, fmt.Errorf("collection.DeleteMany: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (c *Collection) insert(ctx context.Context, entity tenant.Entity, data map[string]any) (tenant.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload for %s", table)
	}

	keys := sortedKeys(data)

	var (
		cols         = make([]string, len(keys))
		placeholders = make([]string, len(keys))
		params       = make([]any, len(keys))
	)
	for i, k := range keys {
		cols[i], err = columnFor(k)
		if err != nil {
			return nil, err
		}
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		params[i] = data[k]
	}

	rows, err := c.pool.Query(ctx,
		"INSERT INTO "+table+" ("+strings.Join(cols, ", ")+") VALUES ("+strings.Join(placeholders, ", ")+") RETURNING *",
		params...,
	)
	if err != nil {
		return nil, err
	}

	record, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	return record, nil
}

func (c *Collection) update(ctx context.Context, entity tenant.Entity, where, data map[string]any) (tenant.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}

	set, params, err := buildSet(data, 1)
	if err != nil {
		return nil, err
	}

	cond, whereParams, err := buildWhere(where, len(params)+1)
	if err != nil {
		return nil, err
	}
	params = append(params, whereParams...)

	rows, err := c.pool.Query(ctx, "UPDATE "+table+" SET "+set+cond+" RETURNING *", params...)
	if err != nil {
		return nil, err
	}

	record, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	return record, nil
}

// buildWhere renders the filter as " WHERE a = $1 AND b = $2" with sorted
// keys. Slice values become "= ANY($n)"; nil values become "IS NULL".
func buildWhere(where map[string]any, start int) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	keys := sortedKeys(where)

	var (
		conds  = make([]string, 0, len(keys))
		params = make([]any, 0, len(keys))
	)
	for _, k := range keys {
		col, err := columnFor(k)
		if err != nil {
			return "", nil, err
		}

		switch v := where[k].(type) {
		case nil:
			conds = append(conds, col+" IS NULL")
		case []any:
			params = append(params, v)
			conds = append(conds, fmt.Sprintf("%s = ANY($%d)", col, start+len(params)-1))
		default:
			params = append(params, v)
			conds = append(conds, fmt.Sprintf("%s = $%d", col, start+len(params)-1))
		}
	}

	return " WHERE " + strings.Join(conds, " AND "), params, nil
}

func buildSet(data map[string]any, start int) (string, []any, error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty update payload")
	}

	keys := sortedKeys(data)

	var (
		assigns = make([]string, 0, len(keys))
		params  = make([]any, 0, len(keys))
	)
	for _, k := range keys {
		col, err := columnFor(k)
		if err != nil {
			return "", nil, err
		}

		params = append(params, data[k])
		assigns = append(assigns, fmt.Sprintf("%s = $%d", col, start+len(params)-1))
	}

	return strings.Join(assigns, ", "), params, nil
}

func tableFor(entity tenant.Entity) (string, error) {
	table, ok := entityTables[entity]
	if !ok {
		return "", fmt.Errorf("unknown entity %q", entity)
	}
	return table, nil
}

// columnFor maps a camelCase field name to its snake_case column and rejects
// anything that is not a plain identifier, so field names can never smuggle
// SQL into a statement.
func columnFor(field string) (string, error) {
	col := camelToSnake(field)
	if col == "" {
		return "", fmt.Errorf("empty field name")
	}
	for _, r := range col {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return "", fmt.Errorf("invalid field name %q", field)
		}
	}
	return col, nil
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
