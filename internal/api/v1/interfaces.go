package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/secrets"
	"github.com/eventlane/eventlane/internal/tenant"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Memberships() domain.MembershipRepository
	Users() domain.UserRepository
	Events() domain.EventRepository
	Sessions() domain.SessionRepository
	Registrations() domain.RegistrationRepository
	FloorPlans() domain.FloorPlanRepository
	Secrets() secrets.SecretRepository
	Audit() domain.AuditRepository
	Collection() tenant.Datastore
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	RegisterOwner(ctx context.Context, tenantName, slug, email, password, name string) (*domain.User, *domain.Tenant, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	SwitchTenant(ctx context.Context, userID uuid.UUID, tenantID string) (*domain.TenantMembership, error)
	SessionTokens(ctx context.Context, userID uuid.UUID) (accessToken, refreshToken string, err error)
	GenerateAPIKey(ctx context.Context, tenantID string, userID uuid.UUID, name string, scopes []string) (string, *domain.APIKey, error)
}

// Publisher abstracts the pubsub fanout for handler testing.
// *redis.PubSub satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
