package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventlane/eventlane/internal/secrets"
)

type SecretRepo struct {
	pool *pgxpool.Pool
}

func NewSecretRepo(pool *pgxpool.Pool) *SecretRepo {
	return &SecretRepo{pool: pool}
}

func (r *SecretRepo) Create(ctx context.Context, s *secrets.Secret) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO secrets (id, tenant_id, integration, name, value, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (tenant_id, integration, name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		s.ID, s.TenantID, s.Integration, s.Name, s.Value, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("secretRepo.Create: %w", err)
	}

	return nil
}

func (r *SecretRepo) GetByName(ctx context.Context, tenantID, integration, name string) (*secrets.Secret, error) {
	var s secrets.Secret

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, integration, name, value, created_at, updated_at
		 FROM secrets WHERE tenant_id = $1 AND integration = $2 AND name = $3`,
		tenantID, integration, name,
	).Scan(&s.ID, &s.TenantID, &s.Integration, &s.Name, &s.Value, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("secretRepo.GetByName: %w", secrets.ErrSecretNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("secretRepo.GetByName: %w", err)
	}

	return &s, nil
}

func (r *SecretRepo) ListByIntegration(ctx context.Context, tenantID, integration string) ([]*secrets.Secret, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, integration, name, value, created_at, updated_at
		 FROM secrets WHERE tenant_id = $1 AND integration = $2 ORDER BY name`,
		tenantID, integration,
	)
	if err != nil {
		return nil, fmt.Errorf("secretRepo.ListByIntegration: %w", err)
	}
	defer rows.Close()

	var out []*secrets.Secret
	for rows.Next() {
		var s secrets.Secret

		err = rows.Scan(&s.ID, &s.TenantID, &s.Integration, &s.Name, &s.Value, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("secretRepo.ListByIntegration: scan: %w", err)
		}

		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("secretRepo.ListByIntegration: rows: %w", err)
	}

	return out, nil
}

func (r *SecretRepo) Delete(ctx context.Context, tenantID, integration, name string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM secrets WHERE tenant_id = $1 AND integration = $2 AND name = $3`,
		tenantID, integration, name,
	)
	if err != nil {
		return fmt.Errorf("secretRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("secretRepo.Delete: %w", secrets.ErrSecretNotFound)
	}

	return nil
}
