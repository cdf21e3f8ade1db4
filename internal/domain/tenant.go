package domain

import (
	"context"
	"time"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusInactive  TenantStatus = "inactive"
)

// Tenant is a company/organization boundary. Tenant IDs are strings because
// they travel in the propagation header and in JWT claims. Tenants are
// retired by flipping Status to inactive, never hard-deleted.
type Tenant struct {
	ID           string
	Name         string
	Slug         string
	Plan         string // plan tier name, see internal/plan
	Status       TenantStatus
	MaxEvents    int
	MaxUsers     int
	MaxStorageMB int
	BillingEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	SetStatus(ctx context.Context, id string, status TenantStatus) error
	ListPaginated(ctx context.Context, limit, offset int) ([]*Tenant, error)
}
