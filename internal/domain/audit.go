package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuditEntry struct {
	ID         uuid.UUID
	TenantID   string
	ActorType  string // "user", "system"
	ActorID    string
	Action     string // "access_denied", "plan_changed", "tenant_suspended", etc.
	Resource   string // "event", "registration", "floor_plan", etc.
	ResourceID uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*AuditEntry, error)
}
