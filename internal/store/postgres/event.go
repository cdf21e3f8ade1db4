package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventlane/eventlane/internal/domain"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO events (id, tenant_id, name, slug, description, venue, status, capacity, starts_at, ends_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.TenantID, e.Name, e.Slug, e.Description, e.Venue, e.Status, e.Capacity, e.StartsAt, e.EndsAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("eventRepo.Create: %w", err)
	}

	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Event, error) {
	var e domain.Event

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, slug, description, venue, status, capacity, starts_at, ends_at, created_at, updated_at
		 FROM events WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&e.ID, &e.TenantID, &e.Name, &e.Slug, &e.Description, &e.Venue, &e.Status, &e.Capacity, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("eventRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("eventRepo.GetByID: %w", err)
	}

	return &e, nil
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET name = $1, slug = $2, description = $3, venue = $4, status = $5, capacity = $6, starts_at = $7, ends_at = $8, updated_at = now()
		 WHERE tenant_id = $9 AND id = $10`,
		e.Name, e.Slug, e.Description, e.Venue, e.Status, e.Capacity, e.StartsAt, e.EndsAt, e.TenantID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("eventRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("eventRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *EventRepo) List(ctx context.Context, tenantID string) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, slug, description, venue, status, capacity, starts_at, ends_at, created_at, updated_at
		 FROM events WHERE tenant_id = $1 ORDER BY starts_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("eventRepo.List: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var e domain.Event

		err = rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.Slug, &e.Description, &e.Venue, &e.Status, &e.Capacity, &e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("eventRepo.List: scan: %w", err)
		}

		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("eventRepo.List: rows: %w", err)
	}

	return events, nil
}

func (r *EventRepo) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM events WHERE tenant_id = $1`,
		tenantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("eventRepo.CountByTenant: %w", err)
	}

	return count, nil
}

func (r *EventRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM events WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("eventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("eventRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.EventSession) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, tenant_id, event_id, title, speaker_name, room, starts_at, ends_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.TenantID, s.EventID, s.Title, s.SpeakerName, s.Room, s.StartsAt, s.EndsAt, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sessionRepo.Create: %w", err)
	}

	return nil
}

func (r *SessionRepo) ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*domain.EventSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, event_id, title, speaker_name, room, starts_at, ends_at, created_at
		 FROM sessions WHERE tenant_id = $1 AND event_id = $2 ORDER BY starts_at`,
		tenantID, eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("sessionRepo.ListByEvent: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.EventSession
	for rows.Next() {
		var s domain.EventSession

		err = rows.Scan(&s.ID, &s.TenantID, &s.EventID, &s.Title, &s.SpeakerName, &s.Room, &s.StartsAt, &s.EndsAt, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("sessionRepo.ListByEvent: scan: %w", err)
		}

		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sessionRepo.ListByEvent: rows: %w", err)
	}

	return sessions, nil
}

func (r *SessionRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sessions WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("sessionRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sessionRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
