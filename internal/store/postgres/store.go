package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/secrets"
	"github.com/eventlane/eventlane/internal/tenant"
)

type Store struct {
	pool          *pgxpool.Pool
	tenants       *TenantRepo
	memberships   *MembershipRepo
	users         *UserRepo
	events        *EventRepo
	sessions      *SessionRepo
	registrations *RegistrationRepo
	floorPlans    *FloorPlanRepo
	secrets       *SecretRepo
	audit         *AuditRepo
	collection    *Collection
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:          pool,
		tenants:       NewTenantRepo(pool),
		memberships:   NewMembershipRepo(pool),
		users:         NewUserRepo(pool),
		events:        NewEventRepo(pool),
		sessions:      NewSessionRepo(pool),
		registrations: NewRegistrationRepo(pool),
		floorPlans:    NewFloorPlanRepo(pool),
		secrets:       NewSecretRepo(pool),
		audit:         NewAuditRepo(pool),
		collection:    NewCollection(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository             { return s.tenants }
func (s *Store) Memberships() domain.MembershipRepository     { return s.memberships }
func (s *Store) Users() domain.UserRepository                 { return s.users }
func (s *Store) Events() domain.EventRepository               { return s.events }
func (s *Store) Sessions() domain.SessionRepository           { return s.sessions }
func (s *Store) Registrations() domain.RegistrationRepository { return s.registrations }
func (s *Store) FloorPlans() domain.FloorPlanRepository       { return s.floorPlans }
func (s *Store) Secrets() secrets.SecretRepository            { return s.secrets }
func (s *Store) Audit() domain.AuditRepository                { return s.audit }
func (s *Store) Collection() tenant.Datastore                 { return s.collection }
