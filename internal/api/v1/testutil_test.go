package v1_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/secrets"
	"github.com/eventlane/eventlane/internal/tenant"
)

// ---------------------------------------------------------------------------
// Context helpers — inject tenant/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func tenantCtx(tenantID string) context.Context {
	return tenant.WithTenantID(context.Background(), tenantID)
}

func memberCtx(tenantID string, userID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = tenant.WithUserID(ctx, userID)
	return tenant.WithRole(ctx, domain.RoleMember)
}

func adminCtx(tenantID string, userID uuid.UUID) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = tenant.WithUserID(ctx, userID)
	return tenant.WithRole(ctx, domain.RoleTenantAdmin)
}

func superAdminCtx(userID uuid.UUID) context.Context {
	ctx := tenant.WithUserID(context.Background(), userID)
	return tenant.WithRole(ctx, domain.RoleSuperAdmin)
}

func withUser(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = tenant.WithUserID(ctx, userID)
	return tenant.WithRole(ctx, role)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants       domain.TenantRepository
	memberships   domain.MembershipRepository
	users         domain.UserRepository
	events        domain.EventRepository
	sessions      domain.SessionRepository
	registrations domain.RegistrationRepository
	floorPlans    domain.FloorPlanRepository
	secrets       secrets.SecretRepository
	audit         domain.AuditRepository
	collection    tenant.Datastore
}

func (m *mockDataStore) Tenants() domain.TenantRepository             { return m.tenants }
func (m *mockDataStore) Memberships() domain.MembershipRepository     { return m.memberships }
func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }
func (m *mockDataStore) Events() domain.EventRepository               { return m.events }
func (m *mockDataStore) Sessions() domain.SessionRepository           { return m.sessions }
func (m *mockDataStore) Registrations() domain.RegistrationRepository { return m.registrations }
func (m *mockDataStore) FloorPlans() domain.FloorPlanRepository       { return m.floorPlans }
func (m *mockDataStore) Secrets() secrets.SecretRepository            { return m.secrets }
func (m *mockDataStore) Audit() domain.AuditRepository                { return m.audit }
func (m *mockDataStore) Collection() tenant.Datastore                 { return m.collection }

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc        func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc       func(ctx context.Context, id string) (*domain.Tenant, error)
	getBySlugFunc     func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc        func(ctx context.Context, t *domain.Tenant) error
	setStatusFunc     func(ctx context.Context, id string, status domain.TenantStatus) error
	listPaginatedFunc func(ctx context.Context, limit, offset int) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTenantRepo) SetStatus(ctx context.Context, id string, status domain.TenantStatus) error {
	return m.setStatusFunc(ctx, id, status)
}

func (m *mockTenantRepo) ListPaginated(ctx context.Context, limit, offset int) ([]*domain.Tenant, error) {
	return m.listPaginatedFunc(ctx, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock MembershipRepository
// ---------------------------------------------------------------------------

type mockMembershipRepo struct {
	createFunc           func(ctx context.Context, m *domain.TenantMembership) error
	getFunc              func(ctx context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error)
	listActiveByUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.TenantMembership, error)
	listByTenantFunc     func(ctx context.Context, tenantID string) ([]*domain.TenantMembership, error)
	updateRoleFunc       func(ctx context.Context, tenantID string, userID uuid.UUID, role string) error
	updateStatusFunc     func(ctx context.Context, tenantID string, userID uuid.UUID, status domain.MembershipStatus) error
}

func (m *mockMembershipRepo) Create(ctx context.Context, mem *domain.TenantMembership) error {
	return m.createFunc(ctx, mem)
}

func (m *mockMembershipRepo) Get(ctx context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
	return m.getFunc(ctx, tenantID, userID)
}

func (m *mockMembershipRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TenantMembership, error) {
	return m.listActiveByUserFunc(ctx, userID)
}

func (m *mockMembershipRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.TenantMembership, error) {
	return m.listByTenantFunc(ctx, tenantID)
}

func (m *mockMembershipRepo) UpdateRole(ctx context.Context, tenantID string, userID uuid.UUID, role string) error {
	return m.updateRoleFunc(ctx, tenantID, userID, role)
}

func (m *mockMembershipRepo) UpdateStatus(ctx context.Context, tenantID string, userID uuid.UUID, status domain.MembershipStatus) error {
	return m.updateStatusFunc(ctx, tenantID, userID, status)
}

// activeMemberships returns a membership repo that reports an active
// membership with the given role for every lookup.
func activeMemberships(role string) *mockMembershipRepo {
	return &mockMembershipRepo{
		getFunc: func(_ context.Context, tenantID string, userID uuid.UUID) (*domain.TenantMembership, error) {
			return &domain.TenantMembership{
				TenantID: tenantID,
				UserID:   userID,
				Role:     role,
				Status:   domain.MembershipStatusActive,
			}, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc               func(ctx context.Context, u *domain.User) error
	getByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc           func(ctx context.Context, email string) (*domain.User, error)
	updateFunc               func(ctx context.Context, u *domain.User) error
	setCurrentTenantFunc     func(ctx context.Context, userID uuid.UUID, tenantID string) error
	createAPIKeyFunc         func(ctx context.Context, key *domain.APIKey) error
	getAPIKeyByPrefixFunc    func(ctx context.Context, prefix string) (*domain.APIKey, error)
	listAPIKeysFunc          func(ctx context.Context, tenantID string, userID uuid.UUID) ([]*domain.APIKey, error)
	deleteAPIKeyFunc         func(ctx context.Context, id uuid.UUID) error
	updateAPIKeyLastUsedFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) SetCurrentTenant(ctx context.Context, userID uuid.UUID, tenantID string) error {
	return m.setCurrentTenantFunc(ctx, userID, tenantID)
}

func (m *mockUserRepo) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	return m.createAPIKeyFunc(ctx, key)
}

func (m *mockUserRepo) GetAPIKeyByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error) {
	return m.getAPIKeyByPrefixFunc(ctx, prefix)
}

func (m *mockUserRepo) ListAPIKeys(ctx context.Context, tenantID string, userID uuid.UUID) ([]*domain.APIKey, error) {
	return m.listAPIKeysFunc(ctx, tenantID, userID)
}

func (m *mockUserRepo) DeleteAPIKey(ctx context.Context, id uuid.UUID) error {
	return m.deleteAPIKeyFunc(ctx, id)
}

func (m *mockUserRepo) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	return m.updateAPIKeyLastUsedFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock EventRepository
// ---------------------------------------------------------------------------

type mockEventRepo struct {
	createFunc        func(ctx context.Context, e *domain.Event) error
	getByIDFunc       func(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Event, error)
	updateFunc        func(ctx context.Context, e *domain.Event) error
	listFunc          func(ctx context.Context, tenantID string) ([]*domain.Event, error)
	countByTenantFunc func(ctx context.Context, tenantID string) (int64, error)
	deleteFunc        func(ctx context.Context, tenantID string, id uuid.UUID) error
}

func (m *mockEventRepo) Create(ctx context.Context, e *domain.Event) error {
	return m.createFunc(ctx, e)
}

func (m *mockEventRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Event, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockEventRepo) Update(ctx context.Context, e *domain.Event) error {
	return m.updateFunc(ctx, e)
}

func (m *mockEventRepo) List(ctx context.Context, tenantID string) ([]*domain.Event, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockEventRepo) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	return m.countByTenantFunc(ctx, tenantID)
}

func (m *mockEventRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock SessionRepository
// ---------------------------------------------------------------------------

type mockSessionRepo struct {
	createFunc      func(ctx context.Context, s *domain.EventSession) error
	listByEventFunc func(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*domain.EventSession, error)
	deleteFunc      func(ctx context.Context, tenantID string, id uuid.UUID) error
}

func (m *mockSessionRepo) Create(ctx context.Context, s *domain.EventSession) error {
	return m.createFunc(ctx, s)
}

func (m *mockSessionRepo) ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*domain.EventSession, error) {
	return m.listByEventFunc(ctx, tenantID, eventID)
}

func (m *mockSessionRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock FloorPlanRepository
// ---------------------------------------------------------------------------

type mockFloorPlanRepo struct {
	createFunc      func(ctx context.Context, fp *domain.FloorPlan) error
	getByIDFunc     func(ctx context.Context, tenantID string, id uuid.UUID) (*domain.FloorPlan, error)
	updateFunc      func(ctx context.Context, fp *domain.FloorPlan) error
	listByEventFunc func(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*domain.FloorPlan, error)
	deleteFunc      func(ctx context.Context, tenantID string, id uuid.UUID) error
}

func (m *mockFloorPlanRepo) Create(ctx context.Context, fp *domain.FloorPlan) error {
	return m.createFunc(ctx, fp)
}

func (m *mockFloorPlanRepo) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.FloorPlan, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockFloorPlanRepo) Update(ctx context.Context, fp *domain.FloorPlan) error {
	return m.updateFunc(ctx, fp)
}

func (m *mockFloorPlanRepo) ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*domain.FloorPlan, error) {
	return m.listByEventFunc(ctx, tenantID, eventID)
}

func (m *mockFloorPlanRepo) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	return m.deleteFunc(ctx, tenantID, id)
}

// ---------------------------------------------------------------------------
// Mock SecretRepository
// ---------------------------------------------------------------------------

type mockSecretRepo struct {
	createFunc            func(ctx context.Context, s *secrets.Secret) error
	getByNameFunc         func(ctx context.Context, tenantID, integration, name string) (*secrets.Secret, error)
	listByIntegrationFunc func(ctx context.Context, tenantID, integration string) ([]*secrets.Secret, error)
	deleteFunc            func(ctx context.Context, tenantID, integration, name string) error
}

func (m *mockSecretRepo) Create(ctx context.Context, s *secrets.Secret) error {
	return m.createFunc(ctx, s)
}

func (m *mockSecretRepo) GetByName(ctx context.Context, tenantID, integration, name string) (*secrets.Secret, error) {
	return m.getByNameFunc(ctx, tenantID, integration, name)
}

func (m *mockSecretRepo) ListByIntegration(ctx context.Context, tenantID, integration string) ([]*secrets.Secret, error) {
	return m.listByIntegrationFunc(ctx, tenantID, integration)
}

func (m *mockSecretRepo) Delete(ctx context.Context, tenantID, integration, name string) error {
	return m.deleteFunc(ctx, tenantID, integration, name)
}

// ---------------------------------------------------------------------------
// Mock AuditRepository — records entries for assertion
// ---------------------------------------------------------------------------

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
}

func (m *mockAuditRepo) Record(_ context.Context, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]*domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AuditEntry
	for _, e := range m.entries {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerOwnerFunc  func(ctx context.Context, tenantName, slug, email, password, name string) (*domain.User, *domain.Tenant, error)
	loginFunc          func(ctx context.Context, email, password string) (string, string, error)
	refreshTokenFunc   func(ctx context.Context, refreshToken string) (string, error)
	switchTenantFunc   func(ctx context.Context, userID uuid.UUID, tenantID string) (*domain.TenantMembership, error)
	sessionTokensFunc  func(ctx context.Context, userID uuid.UUID) (string, string, error)
	generateAPIKeyFunc func(ctx context.Context, tenantID string, userID uuid.UUID, name string, scopes []string) (string, *domain.APIKey, error)
}

func (m *mockAuthService) RegisterOwner(ctx context.Context, tenantName, slug, email, password, name string) (*domain.User, *domain.Tenant, error) {
	return m.registerOwnerFunc(ctx, tenantName, slug, email, password, name)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	return m.loginFunc(ctx, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

func (m *mockAuthService) SwitchTenant(ctx context.Context, userID uuid.UUID, tenantID string) (*domain.TenantMembership, error) {
	return m.switchTenantFunc(ctx, userID, tenantID)
}

func (m *mockAuthService) SessionTokens(ctx context.Context, userID uuid.UUID) (string, string, error) {
	return m.sessionTokensFunc(ctx, userID)
}

func (m *mockAuthService) GenerateAPIKey(ctx context.Context, tenantID string, userID uuid.UUID, name string, scopes []string) (string, *domain.APIKey, error) {
	return m.generateAPIKeyFunc(ctx, tenantID, userID, name, scopes)
}

// ---------------------------------------------------------------------------
// Mock Publisher — records published messages
// ---------------------------------------------------------------------------

type published struct {
	channel string
	payload []byte
}

type mockPublisher struct {
	mu       sync.Mutex
	messages []published
}

func (m *mockPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, published{channel: channel, payload: payload})
	return nil
}

// ---------------------------------------------------------------------------
// Fake generic datastore — records every call so tests can assert exactly
// which filters and payloads reached the storage layer after interception
// ---------------------------------------------------------------------------

type fakeCall struct {
	op     tenant.Op
	entity tenant.Entity
	args   tenant.Args
}

type fakeDatastore struct {
	mu    sync.Mutex
	calls []fakeCall

	findManyResult []tenant.Record
	findResult     tenant.Record
	countResult    int64
	countFunc      func(args tenant.Args) (int64, error)
	groupByResult  []tenant.GroupCount
	updateResult   tenant.Record
	manyResult     int64
	err            error
}

func (f *fakeDatastore) record(op tenant.Op, entity tenant.Entity, args tenant.Args) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{op: op, entity: entity, args: args})
}

func (f *fakeDatastore) callsFor(op tenant.Op) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeDatastore) lastCall(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no datastore calls recorded")
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeDatastore) FindMany(_ context.Context, entity tenant.Entity, args tenant.Args) ([]tenant.Record, error) {
	f.record(tenant.OpFindMany, entity, args)
	return f.findManyResult, f.err
}

func (f *fakeDatastore) FindFirst(_ context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	f.record(tenant.OpFindFirst, entity, args)
	return f.findResult, f.err
}

func (f *fakeDatastore) FindUnique(_ context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	f.record(tenant.OpFindUnique, entity, args)
	return f.findResult, f.err
}

func (f *fakeDatastore) Count(_ context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	f.record(tenant.OpCount, entity, args)
	if f.countFunc != nil {
		return f.countFunc(args)
	}
	return f.countResult, f.err
}

func (f *fakeDatastore) Aggregate(_ context.Context, entity tenant.Entity, _ tenant.AggregateFunc, _ string, args tenant.Args) (float64, error) {
	f.record(tenant.OpAggregate, entity, args)
	return 0, f.err
}

func (f *fakeDatastore) GroupBy(_ context.Context, entity tenant.Entity, _ string, args tenant.Args) ([]tenant.GroupCount, error) {
	f.record(tenant.OpGroupBy, entity, args)
	return f.groupByResult, f.err
}

func (f *fakeDatastore) Create(_ context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	f.record(tenant.OpCreate, entity, args)
	if f.err != nil {
		return nil, f.err
	}
	return args.Data, nil
}

func (f *fakeDatastore) CreateMany(_ context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	f.record(tenant.OpCreateMany, entity, args)
	return f.manyResult, f.err
}

func (f *fakeDatastore) Update(_ context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	f.record(tenant.OpUpdate, entity, args)
	return f.updateResult, f.err
}

func (f *fakeDatastore) UpdateMany(_ context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	f.record(tenant.OpUpdateMany, entity, args)
	return f.manyResult, f.err
}

func (f *fakeDatastore) Upsert(_ context.Context, entity tenant.Entity, args tenant.Args) (tenant.Record, error) {
	f.record(tenant.OpUpsert, entity, args)
	return f.updateResult, f.err
}

func (f *fakeDatastore) Delete(_ context.Context, entity tenant.Entity, args tenant.Args) error {
	f.record(tenant.OpDelete, entity, args)
	return f.err
}

func (f *fakeDatastore) DeleteMany(_ context.Context, entity tenant.Entity, args tenant.Args) (int64, error) {
	f.record(tenant.OpDeleteMany, entity, args)
	return f.manyResult, f.err
}
