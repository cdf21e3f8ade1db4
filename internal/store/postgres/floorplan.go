package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventlane/eventlane/internal/domain"
)

type FloorPlanRepo struct {
	pool *pgxpool.Pool
}

func NewFloorPlanRepo(pool *pgxpool.Pool) *FloorPlanRepo {
	return &FloorPlanRepo{pool: pool}
}

func (r *FloorPlanRepo) Create(ctx context.Context, fp *domain.FloorPlan) error {
	objects, err := json.Marshal(fp.Objects)
	if err != nil {
		return fmt.Errorf("floorPlanRepo.Create: marshal objects: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO floor_plans (id, tenant_id, event_id, name, width, height, objects, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		fp.ID, fp.TenantID, fp.EventID, fp.Name, fp.Width, fp.Height, objects, fp.CreatedAt, fp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("floorPlanRepo.Create: %w", err)
	}

	return nil
}

func (r *FloorPlanRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.FloorPlan, error) {
	var (
		fp      domain.FloorPlan
		objects []byte
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, event_id, name, width, height, objects, created_at, updated_at
		 FROM floor_plans WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&fp.ID, &fp.TenantID, &fp.EventID, &fp.Name, &fp.Width, &fp.Height, &objects, &fp.CreatedAt, &fp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("floorPlanRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("floorPlanRepo.GetByID: %w", err)
	}

	if err := json.Unmarshal(objects, &fp.Objects); err != nil {
		return nil, fmt.Errorf("floorPlanRepo.GetByID: unmarshal objects: %w", err)
	}

	return &fp, nil
}

func (r *FloorPlanRepo) ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*domain.FloorPlan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, event_id, name, width, height, objects, created_at, updated_at
		 FROM floor_plans WHERE tenant_id = $1 AND event_id = $2 ORDER BY created_at`,
		tenantID, eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("floorPlanRepo.ListByEvent: %w", err)
	}
	defer rows.Close()

	var plans []*domain.FloorPlan
	for rows.Next() {
		var (
			fp      domain.FloorPlan
			objects []byte
		)

		err = rows.Scan(&fp.ID, &fp.TenantID, &fp.EventID, &fp.Name, &fp.Width, &fp.Height, &objects, &fp.CreatedAt, &fp.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("floorPlanRepo.ListByEvent: scan: %w", err)
		}

		if err := json.Unmarshal(objects, &fp.Objects); err != nil {
			return nil, fmt.Errorf("floorPlanRepo.ListByEvent: unmarshal objects: %w", err)
		}

		plans = append(plans, &fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("floorPlanRepo.ListByEvent: rows: %w", err)
	}

	return plans, nil
}

func (r *FloorPlanRepo) Update(ctx context.Context, fp *domain.FloorPlan) error {
	objects, err := json.Marshal(fp.Objects)
	if err != nil {
		return fmt.Errorf("floorPlanRepo.Update: marshal objects: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE floor_plans SET name = $1, width = $2, height = $3, objects = $4, updated_at = now()
		 WHERE tenant_id = $5 AND id = $6`,
		fp.Name, fp.Width, fp.Height, objects, fp.TenantID, fp.ID,
	)
	if err != nil {
		return fmt.Errorf("floorPlanRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("floorPlanRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *FloorPlanRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM floor_plans WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("floorPlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("floorPlanRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
