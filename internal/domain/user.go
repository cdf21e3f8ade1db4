package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a platform account. Users are not tenant-scoped themselves; they
// reach tenants through TenantMembership records. CurrentTenantID is the
// session-selected tenant and is empty until a membership exists.
type User struct {
	ID              uuid.UUID
	Email           string
	PasswordHash    string // argon2id
	Name            string
	SuperAdmin      bool
	CurrentTenantID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type APIKey struct {
	ID         uuid.UUID
	TenantID   string
	UserID     uuid.UUID
	Name       string
	KeyHash    string // SHA-256
	Prefix     string // first 8 chars for identification
	Scopes     []string
	LastUsedAt *time.Time // nullable
	ExpiresAt  *time.Time // nullable
	CreatedAt  time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	SetCurrentTenant(ctx context.Context, userID uuid.UUID, tenantID string) error

	// API keys
	CreateAPIKey(ctx context.Context, key *APIKey) error
	GetAPIKeyByPrefix(ctx context.Context, prefix string) (*APIKey, error)
	ListAPIKeys(ctx context.Context, tenantID string, userID uuid.UUID) ([]*APIKey, error)
	DeleteAPIKey(ctx context.Context, id uuid.UUID) error
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
}
