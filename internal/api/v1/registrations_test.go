package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/eventlane/eventlane/internal/api/v1"
	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/tenant"
)

// newRegistrationAPI wires the registration routes the way the server does:
// the raw datastore wrapped in the ambient scope decorator. Tests then assert
// on the filters and payloads that reach the fake after interception.
func newRegistrationAPI(t *testing.T, e *domain.Event, fake *fakeDatastore) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	store := &mockDataStore{
		memberships: activeMemberships(domain.RoleTenantAdmin),
		events: &mockEventRepo{
			getByIDFunc: func(_ context.Context, _ string, _ uuid.UUID) (*domain.Event, error) {
				return e, nil
			},
		},
	}
	v1.RegisterRegistrationRoutes(api, store, tenant.Scope(fake, tenant.ContextTenant("")))
	return api
}

// ---------------------------------------------------------------------------
// POST /events/{eventID}/registrations
// ---------------------------------------------------------------------------

func TestCreateRegistration(t *testing.T) {
	t.Parallel()

	registrationBody := map[string]any{
		"attendee_name":  "Sam Porter",
		"attendee_email": "sam@example.com",
		"ticket_type":    "general",
	}

	t.Run("confirmed_under_capacity", func(t *testing.T) {
		t.Parallel()

		e := storedEvent("acme")
		fake := &fakeDatastore{countResult: 10}
		api := newRegistrationAPI(t, e, fake)

		resp := api.PostCtx(tenantCtx("acme"), "/events/"+e.ID.String()+"/registrations", registrationBody)

		require.Equal(t, http.StatusOK, resp.Code)

		creates := fake.callsFor(tenant.OpCreate)
		require.Len(t, creates, 1)
		data := creates[0].args.Data
		assert.Equal(t, "acme", data["tenantId"])
		assert.Equal(t, e.ID, data["eventId"])
		assert.Equal(t, "Sam Porter", data["attendeeName"])
		assert.Equal(t, string(domain.RegistrationStatusConfirmed), data["status"])

		// the capacity pre-check counted confirmed rows for this tenant only
		counts := fake.callsFor(tenant.OpCount)
		require.Len(t, counts, 1)
		assert.Equal(t, "acme", counts[0].args.Where["tenantId"])
		assert.Equal(t, string(domain.RegistrationStatusConfirmed), counts[0].args.Where["status"])
	})

	t.Run("waitlisted_at_capacity", func(t *testing.T) {
		t.Parallel()

		e := storedEvent("acme")
		e.Capacity = 100
		fake := &fakeDatastore{countResult: 100}
		api := newRegistrationAPI(t, e, fake)

		resp := api.PostCtx(tenantCtx("acme"), "/events/"+e.ID.String()+"/registrations", registrationBody)

		require.Equal(t, http.StatusOK, resp.Code)

		creates := fake.callsFor(tenant.OpCreate)
		require.Len(t, creates, 1)
		assert.Equal(t, string(domain.RegistrationStatusWaitlist), creates[0].args.Data["status"])
	})

	t.Run("unlimited_capacity_skips_count", func(t *testing.T) {
		t.Parallel()

		e := storedEvent("acme")
		e.Capacity = 0
		fake := &fakeDatastore{}
		api := newRegistrationAPI(t, e, fake)

		resp := api.PostCtx(tenantCtx("acme"), "/events/"+e.ID.String()+"/registrations", registrationBody)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Empty(t, fake.callsFor(tenant.OpCount))
	})
}

// ---------------------------------------------------------------------------
// GET /events/{eventID}/registrations
// ---------------------------------------------------------------------------

func TestListRegistrations(t *testing.T) {
	t.Parallel()

	e := storedEvent("acme")
	fake := &fakeDatastore{
		findManyResult: []tenant.Record{
			{"id": uuid.NewString(), "attendeeName": "Sam Porter", "status": "confirmed"},
		},
		countResult: 1,
	}
	api := newRegistrationAPI(t, e, fake)

	resp := api.GetCtx(tenantCtx("acme"), "/events/"+e.ID.String()+"/registrations?status=confirmed")

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Registrations []tenant.Record `json:"registrations"`
		Total         int64           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Registrations, 1)
	assert.Equal(t, int64(1), body.Total)

	finds := fake.callsFor(tenant.OpFindMany)
	require.Len(t, finds, 1)
	assert.Equal(t, "acme", finds[0].args.Where["tenantId"])
	assert.Equal(t, "confirmed", finds[0].args.Where["status"])
	assert.Equal(t, e.ID, finds[0].args.Where["eventId"])
}

// ---------------------------------------------------------------------------
// POST /events/{eventID}/registrations/{registrationID}/check-in
// ---------------------------------------------------------------------------

func TestCheckInRegistration(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		e := storedEvent("acme")
		regID := uuid.New()
		fake := &fakeDatastore{
			updateResult: tenant.Record{"id": regID.String(), "checkedIn": true},
		}
		api := newRegistrationAPI(t, e, fake)

		resp := api.PostCtx(tenantCtx("acme"), "/events/"+e.ID.String()+"/registrations/"+regID.String()+"/check-in")

		require.Equal(t, http.StatusOK, resp.Code)

		updates := fake.callsFor(tenant.OpUpdate)
		require.Len(t, updates, 1)
		assert.Equal(t, "acme", updates[0].args.Where["tenantId"])
		assert.Equal(t, regID, updates[0].args.Where["id"])
		assert.Equal(t, true, updates[0].args.Data["checkedIn"])

		// the update payload itself is never rewritten
		assert.NotContains(t, updates[0].args.Data, "tenantId")
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		e := storedEvent("acme")
		fake := &fakeDatastore{err: domain.ErrNotFound}
		api := newRegistrationAPI(t, e, fake)

		resp := api.PostCtx(tenantCtx("acme"), "/events/"+e.ID.String()+"/registrations/"+uuid.NewString()+"/check-in")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /events/{eventID}/registrations/cancel
// ---------------------------------------------------------------------------

func TestCancelRegistrations(t *testing.T) {
	t.Parallel()

	e := storedEvent("acme")
	ids := []string{uuid.NewString(), uuid.NewString()}
	fake := &fakeDatastore{manyResult: 2}
	api := newRegistrationAPI(t, e, fake)

	resp := api.PostCtx(adminCtx("acme", uuid.New()), "/events/"+e.ID.String()+"/registrations/cancel", map[string]any{
		"registration_ids": ids,
	})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"cancelled":2`)

	updates := fake.callsFor(tenant.OpUpdateMany)
	require.Len(t, updates, 1)
	assert.Equal(t, "acme", updates[0].args.Where["tenantId"])
	assert.Equal(t, string(domain.RegistrationStatusCancelled), updates[0].args.Data["status"])
}

// ---------------------------------------------------------------------------
// DELETE /events/{eventID}/registrations/cancelled
// ---------------------------------------------------------------------------

func TestPurgeCancelledRegistrations(t *testing.T) {
	t.Parallel()

	e := storedEvent("acme")
	fake := &fakeDatastore{manyResult: 7}
	api := newRegistrationAPI(t, e, fake)

	resp := api.DeleteCtx(adminCtx("acme", uuid.New()), "/events/"+e.ID.String()+"/registrations/cancelled")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"deleted":7`)

	deletes := fake.callsFor(tenant.OpDeleteMany)
	require.Len(t, deletes, 1)
	assert.Equal(t, "acme", deletes[0].args.Where["tenantId"])
	assert.Equal(t, string(domain.RegistrationStatusCancelled), deletes[0].args.Where["status"])
}

// ---------------------------------------------------------------------------
// GET /events/{eventID}/registrations/stats
// ---------------------------------------------------------------------------

func TestRegistrationStats(t *testing.T) {
	t.Parallel()

	e := storedEvent("acme")
	fake := &fakeDatastore{
		groupByResult: []tenant.GroupCount{
			{Key: "confirmed", Count: 80},
			{Key: "waitlist", Count: 15},
			{Key: "cancelled", Count: 5},
		},
		countResult: 42,
	}
	api := newRegistrationAPI(t, e, fake)

	resp := api.GetCtx(tenantCtx("acme"), "/events/"+e.ID.String()+"/registrations/stats")

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		ByStatus  map[string]int64 `json:"by_status"`
		CheckedIn int64            `json:"checked_in"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(80), body.ByStatus["confirmed"])
	assert.Equal(t, int64(15), body.ByStatus["waitlist"])
	assert.Equal(t, int64(42), body.CheckedIn)

	groups := fake.callsFor(tenant.OpGroupBy)
	require.Len(t, groups, 1)
	assert.Equal(t, "acme", groups[0].args.Where["tenantId"])
}
