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

type RegistrationRepo struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepo(pool *pgxpool.Pool) *RegistrationRepo {
	return &RegistrationRepo{pool: pool}
}

func (r *RegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO registrations (id, tenant_id, event_id, attendee_name, attendee_email, status, checked_in, seat_label, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		reg.ID, reg.TenantID, reg.EventID, reg.AttendeeName, reg.AttendeeEmail, reg.Status, reg.CheckedIn, reg.SeatLabel, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("registrationRepo.Create: %w", err)
	}

	return nil
}

func (r *RegistrationRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Registration, error) {
	var reg domain.Registration

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, event_id, attendee_name, attendee_email, status, checked_in, seat_label, created_at, updated_at
		 FROM registrations WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&reg.ID, &reg.TenantID, &reg.EventID, &reg.AttendeeName, &reg.AttendeeEmail, &reg.Status, &reg.CheckedIn, &reg.SeatLabel, &reg.CreatedAt, &reg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("registrationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("registrationRepo.GetByID: %w", err)
	}

	return &reg, nil
}

func (r *RegistrationRepo) ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID, limit, offset int) ([]*domain.Registration, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, event_id, attendee_name, attendee_email, status, checked_in, seat_label, created_at, updated_at
		 FROM registrations WHERE tenant_id = $1 AND event_id = $2 ORDER BY created_at LIMIT $3 OFFSET $4`,
		tenantID, eventID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("registrationRepo.ListByEvent: %w", err)
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		var reg domain.Registration

		err = rows.Scan(&reg.ID, &reg.TenantID, &reg.EventID, &reg.AttendeeName, &reg.AttendeeEmail, &reg.Status, &reg.CheckedIn, &reg.SeatLabel, &reg.CreatedAt, &reg.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("registrationRepo.ListByEvent: scan: %w", err)
		}

		regs = append(regs, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registrationRepo.ListByEvent: rows: %w", err)
	}

	return regs, nil
}

func (r *RegistrationRepo) CountByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM registrations WHERE tenant_id = $1 AND event_id = $2`,
		tenantID, eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("registrationRepo.CountByEvent: %w", err)
	}

	return count, nil
}

func (r *RegistrationRepo) SetCheckedIn(ctx context.Context, tenantID string, id uuid.UUID, checkedIn bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE registrations SET checked_in = $1, updated_at = now() WHERE tenant_id = $2 AND id = $3`,
		checkedIn, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("registrationRepo.SetCheckedIn: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registrationRepo.SetCheckedIn: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *RegistrationRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM registrations WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("registrationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("registrationRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
