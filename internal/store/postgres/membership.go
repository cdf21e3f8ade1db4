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

type MembershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

func (r *MembershipRepo) Create(ctx context.Context, m *domain.TenantMembership) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO memberships (id, tenant_id, user_id, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.TenantID, m.UserID, m.Role, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("membershipRepo.Create: %w", err)
	}

	return nil
}

func (r *MembershipRepo) Get(ctx context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
	var m domain.TenantMembership

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, user_id, role, status, created_at, updated_at
		 FROM memberships WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID,
	).Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("membershipRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.Get: %w", err)
	}

	return &m, nil
}

func (r *MembershipRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TenantMembership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, user_id, role, status, created_at, updated_at
		 FROM memberships WHERE user_id = $1 AND status = $2`,
		userID, domain.MembershipStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListActiveByUser: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows, "membershipRepo.ListActiveByUser")
}

func (r *MembershipRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.TenantMembership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, user_id, role, status, created_at, updated_at
		 FROM memberships WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows, "membershipRepo.ListByTenant")
}

func (r *MembershipRepo) UpdateRole(ctx context.Context, tenantID string, userID uuid.UUID, role string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE memberships SET role = $1, updated_at = now()
		 WHERE tenant_id = $2 AND user_id = $3`,
		role, tenantID, userID,
	)
	if err != nil {
		return fmt.Errorf("membershipRepo.UpdateRole: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membershipRepo.UpdateRole: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *MembershipRepo) UpdateStatus(ctx context.Context, tenantID string, userID uuid.UUID, status domain.MembershipStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE memberships SET status = $1, updated_at = now()
		 WHERE tenant_id = $2 AND user_id = $3`,
		status, tenantID, userID,
	)
	if err != nil {
		return fmt.Errorf("membershipRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membershipRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

func scanMemberships(rows pgx.Rows, caller string) ([]*domain.TenantMembership, error) {
	var memberships []*domain.TenantMembership
	for rows.Next() {
		var m domain.TenantMembership

		err := rows.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}

		memberships = append(memberships, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return memberships, nil
}
