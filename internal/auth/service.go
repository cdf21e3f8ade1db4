package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/argon2"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/plan"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// SessionContext is the tenant context attached to a session at login: the
// user's active tenant and their role in it. Both fields are empty when the
// user has no active memberships.
type SessionContext struct {
	TenantID string
	Role     string
}

// Service provides authentication and session tenant establishment.
type Service struct {
	userRepo      domain.UserRepository
	tenantRepo    domain.TenantRepository
	memberships   domain.MembershipRepository
	jwtSecret     string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	defaultTenant string
}

// NewService creates a new auth service. defaultTenant is assigned to super
// admins so tenant-scoped writes they perform still carry a tenant.
func NewService(userRepo domain.UserRepository, tenantRepo domain.TenantRepository, memberships domain.MembershipRepository, jwtSecret string, accessTTL, refreshTTL time.Duration, defaultTenant string) *Service {
	return &Service{
		userRepo:      userRepo,
		tenantRepo:    tenantRepo,
		memberships:   memberships,
		jwtSecret:     jwtSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		defaultTenant: defaultTenant,
	}
}

// RegisterOwner creates a tenant on the free tier together with its first
// user, who gets an owner membership and the new tenant as current.
func (s *Service) RegisterOwner(ctx context.Context, tenantName, slug, email, password, name string) (*domain.User, *domain.Tenant, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOwner: %w", ErrUserAlreadyExists)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOwner: %w", err)
	}

	limits, err := plan.LimitsFor(plan.TierFree)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOwner: %w", err)
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:           uuid.NewString(),
		Name:         tenantName,
		Slug:         slug,
		Plan:         plan.TierFree,
		Status:       domain.TenantStatusActive,
		MaxEvents:    limits.MaxEvents,
		MaxUsers:     limits.MaxUsers,
		MaxStorageMB: limits.MaxStorageMB,
		BillingEmail: email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOwner: create tenant: %w", err)
	}

	user := &domain.User{
		ID:              uuid.New(),
		Email:           email,
		PasswordHash:    hash,
		Name:            name,
		CurrentTenantID: tenant.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOwner: create user: %w", err)
	}

	membership := &domain.TenantMembership{
		ID:        uuid.New(),
		TenantID:  tenant.ID,
		UserID:    user.ID,
		Role:      domain.RoleOwner,
		Status:    domain.MembershipStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOwner: create membership: %w", err)
	}

	return user, tenant, nil
}

// Login validates email/password, establishes the session tenant context, and
// returns access + refresh JWT tokens carrying it.
func (s *Service) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if !verifyPassword(password, user.PasswordHash) {
		return "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	sess := s.EstablishTenant(ctx, user)

	accessToken, err = IssueAccessToken(s.jwtSecret, sess.TenantID, user.ID, sess.Role, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", err)
	}

	refreshToken, err = IssueRefreshToken(s.jwtSecret, sess.TenantID, user.ID, sess.Role, s.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", err)
	}

	return accessToken, refreshToken, nil
}

// EstablishTenant resolves the tenant context to attach to a session:
//
//  1. A recorded current tenant wins if its membership is still active.
//  2. Otherwise the user's active memberships are scanned, preferring owner,
//     then tenant_admin, then the first membership found; the pick is
//     persisted as the user's current tenant.
//  3. With zero active memberships the session carries no tenant context.
//
// Super admins skip membership resolution but are assigned the default tenant
// so tenant-scoped writes they perform still carry a non-null tenant. Store
// errors are logged and degrade to a tenant-less session; they never fail
// session issuance.
func (s *Service) EstablishTenant(ctx context.Context, user *domain.User) SessionContext {
	if user.SuperAdmin {
		return SessionContext{TenantID: s.defaultTenant, Role: domain.RoleSuperAdmin}
	}

	if user.CurrentTenantID != "" {
		m, err := s.memberships.Get(ctx, user.CurrentTenantID, user.ID)
		if err == nil && m.Status == domain.MembershipStatusActive {
			return SessionContext{TenantID: m.TenantID, Role: m.Role}
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("auth.EstablishTenant: current tenant lookup failed")
		}
		// Stale selection; fall through to auto-selection.
	}

	memberships, err := s.memberships.ListActiveByUser(ctx, user.ID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("auth.EstablishTenant: membership listing failed, session proceeds without tenant")
		return SessionContext{}
	}

	best := domain.PreferredMembership(memberships)
	if best == nil {
		return SessionContext{}
	}

	if err := s.userRepo.SetCurrentTenant(ctx, user.ID, best.TenantID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("auth.EstablishTenant: persisting current tenant failed")
	}

	return SessionContext{TenantID: best.TenantID, Role: best.Role}
}

// SwitchTenant changes the user's current tenant. The target must be an
// active membership.
func (s *Service) SwitchTenant(ctx context.Context, userID uuid.UUID, tenantID string) (*domain.TenantMembership, error) {
	m, err := s.memberships.Get(ctx, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("auth.SwitchTenant: %w", err)
	}
	if m.Status != domain.MembershipStatusActive {
		return nil, fmt.Errorf("auth.SwitchTenant: %w", domain.ErrForbidden)
	}

	if err := s.userRepo.SetCurrentTenant(ctx, userID, tenantID); err != nil {
		return nil, fmt.Errorf("auth.SwitchTenant: %w", err)
	}

	return m, nil
}

// SessionTokens issues a fresh access/refresh pair for the user with a newly
// established tenant context. Used after a tenant switch, where the old
// tokens still carry the previous tenant.
func (s *Service) SessionTokens(ctx context.Context, userID uuid.UUID) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("auth.SessionTokens: %w", ErrUserNotFound)
	}

	sess := s.EstablishTenant(ctx, user)

	accessToken, err = IssueAccessToken(s.jwtSecret, sess.TenantID, user.ID, sess.Role, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.SessionTokens: %w", err)
	}

	refreshToken, err = IssueRefreshToken(s.jwtSecret, sess.TenantID, user.ID, sess.Role, s.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.SessionTokens: %w", err)
	}

	return accessToken, refreshToken, nil
}

// RefreshToken validates a refresh token and issues a new access token with a
// freshly established tenant context.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := ValidateToken(s.jwtSecret, refreshToken)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	if claims.TokenType != tokenTypeRefresh {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: invalid user id: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrUserNotFound)
	}

	sess := s.EstablishTenant(ctx, user)

	newAccess, err := IssueAccessToken(s.jwtSecret, sess.TenantID, user.ID, sess.Role, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	return newAccess, nil
}

// hashPassword generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifyPassword checks a password against an argon2id hash.
func verifyPassword(password, encoded string) bool {
	var saltHex, hashHex string
	for i := range len(encoded) {
		if encoded[i] == '$' {
			saltHex = encoded[:i]
			hashHex = encoded[i+1:]
			break
		}
	}

	if saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expectedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return subtle.ConstantTimeCompare(computed, expectedHash) == 1
}
