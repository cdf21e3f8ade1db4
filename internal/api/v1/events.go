package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/plan"
	"github.com/eventlane/eventlane/internal/tenant"
)

type CreateEventInput struct {
	Body struct {
		Name        string    `json:"name" minLength:"1" maxLength:"255" doc:"Event name"`
		Slug        string    `json:"slug" minLength:"1" maxLength:"63" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug"`
		Description string    `json:"description,omitempty" maxLength:"4000" doc:"Event description"`
		Venue       string    `json:"venue,omitempty" maxLength:"255" doc:"Venue name"`
		Capacity    int       `json:"capacity" minimum:"0" doc:"Attendee capacity, 0 for unlimited"`
		StartsAt    time.Time `json:"starts_at" doc:"Event start"`
		EndsAt      time.Time `json:"ends_at" doc:"Event end"`
	}
}

type CreateEventOutput struct {
	Body *domain.Event
}

type ListEventsOutput struct {
	Body []*domain.Event
}

type GetEventInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
}

type GetEventOutput struct {
	Body *domain.Event
}

type UpdateEventInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
	Body    struct {
		Name        string    `json:"name" minLength:"1" maxLength:"255" doc:"Event name"`
		Description string    `json:"description,omitempty" maxLength:"4000" doc:"Event description"`
		Venue       string    `json:"venue,omitempty" maxLength:"255" doc:"Venue name"`
		Capacity    int       `json:"capacity" minimum:"0" doc:"Attendee capacity, 0 for unlimited"`
		StartsAt    time.Time `json:"starts_at" doc:"Event start"`
		EndsAt      time.Time `json:"ends_at" doc:"Event end"`
	}
}

type UpdateEventOutput struct {
	Body *domain.Event
}

type SetEventStatusInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
	Body    struct {
		Status domain.EventStatus `json:"status" enum:"draft,published,archived" doc:"Target status"`
	}
}

type SetEventStatusOutput struct {
	Body *domain.Event
}

type DeleteEventInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
}

type DeleteEventOutput struct {
	Body struct {
		Deleted bool `json:"deleted"`
	}
}

type CreateSessionInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
	Body    struct {
		Title       string    `json:"title" minLength:"1" maxLength:"255" doc:"Session title"`
		SpeakerName string    `json:"speaker_name,omitempty" maxLength:"255" doc:"Speaker display name"`
		Room        string    `json:"room,omitempty" maxLength:"255" doc:"Room name"`
		StartsAt    time.Time `json:"starts_at" doc:"Session start"`
		EndsAt      time.Time `json:"ends_at" doc:"Session end"`
	}
}

type CreateSessionOutput struct {
	Body *domain.EventSession
}

type ListSessionsInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
}

type ListSessionsOutput struct {
	Body []*domain.EventSession
}

func RegisterEventRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-event",
		Method:      http.MethodPost,
		Path:        "/events",
		Summary:     "Create an event",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *CreateEventInput) (*CreateEventOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		t, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load tenant", err)
		}

		limits, err := plan.LimitsFor(t.Plan)
		if err != nil {
			return nil, huma.Error500InternalServerError("tenant carries unknown plan tier", err)
		}

		current, err := store.Events().CountByTenant(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count events", err)
		}

		if err := limits.CheckEventQuota(current); err != nil {
			return nil, huma.Error403Forbidden("event quota exceeded for plan " + t.Plan)
		}

		now := time.Now()
		e := &domain.Event{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Name:        input.Body.Name,
			Slug:        input.Body.Slug,
			Description: input.Body.Description,
			Venue:       input.Body.Venue,
			Status:      domain.EventStatusDraft,
			Capacity:    input.Body.Capacity,
			StartsAt:    input.Body.StartsAt,
			EndsAt:      input.Body.EndsAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Events().Create(ctx, e); err != nil {
			return nil, huma.Error500InternalServerError("failed to create event", err)
		}

		return &CreateEventOutput{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List events for the current tenant",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, _ *struct{}) (*ListEventsOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		events, err := store.Events().List(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list events", err)
		}

		return &ListEventsOutput{Body: events}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-event",
		Method:      http.MethodGet,
		Path:        "/events/{eventID}",
		Summary:     "Get an event by ID",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *GetEventInput) (*GetEventOutput, error) {
		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		return &GetEventOutput{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-event",
		Method:      http.MethodPut,
		Path:        "/events/{eventID}",
		Summary:     "Update an event",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *UpdateEventInput) (*UpdateEventOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		e.Name = input.Body.Name
		e.Description = input.Body.Description
		e.Venue = input.Body.Venue
		e.Capacity = input.Body.Capacity
		e.StartsAt = input.Body.StartsAt
		e.EndsAt = input.Body.EndsAt
		e.UpdatedAt = time.Now()

		if err := store.Events().Update(ctx, e); err != nil {
			return nil, huma.Error500InternalServerError("failed to update event", err)
		}

		return &UpdateEventOutput{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-event-status",
		Method:      http.MethodPut,
		Path:        "/events/{eventID}/status",
		Summary:     "Publish, unpublish or archive an event",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *SetEventStatusInput) (*SetEventStatusOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		if !e.Status.ValidTransition(input.Body.Status) {
			return nil, huma.Error422UnprocessableEntity("invalid status transition from " + string(e.Status) + " to " + string(input.Body.Status))
		}

		e.Status = input.Body.Status
		e.UpdatedAt = time.Now()

		if err := store.Events().Update(ctx, e); err != nil {
			return nil, huma.Error500InternalServerError("failed to update event", err)
		}

		return &SetEventStatusOutput{Body: e}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-event",
		Method:      http.MethodDelete,
		Path:        "/events/{eventID}",
		Summary:     "Delete an event",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *DeleteEventInput) (*DeleteEventOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := store.Events().Delete(ctx, tenantID, input.EventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("event not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete event", err)
		}

		out := &DeleteEventOutput{}
		out.Body.Deleted = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-session",
		Method:      http.MethodPost,
		Path:        "/events/{eventID}/sessions",
		Summary:     "Add an agenda session to an event",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		s := &domain.EventSession{
			ID:          uuid.New(),
			TenantID:    e.TenantID,
			EventID:     e.ID,
			Title:       input.Body.Title,
			SpeakerName: input.Body.SpeakerName,
			Room:        input.Body.Room,
			StartsAt:    input.Body.StartsAt,
			EndsAt:      input.Body.EndsAt,
			CreatedAt:   time.Now(),
		}

		if err := store.Sessions().Create(ctx, s); err != nil {
			return nil, huma.Error500InternalServerError("failed to create session", err)
		}

		return &CreateSessionOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sessions",
		Method:      http.MethodGet,
		Path:        "/events/{eventID}/sessions",
		Summary:     "List agenda sessions for an event",
		Tags:        []string{"Events"},
	}, func(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		sessions, err := store.Sessions().ListByEvent(ctx, e.TenantID, e.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list sessions", err)
		}

		return &ListSessionsOutput{Body: sessions}, nil
	})
}

// fetchEvent loads an event scoped to the caller's tenant and verifies the
// loaded resource really belongs to it. A cross-tenant ID yields 404, never
// 403, so event IDs cannot be probed across the boundary.
func fetchEvent(ctx context.Context, store DataStore, eventID uuid.UUID) (*domain.Event, error) {
	tenantID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, huma.Error403Forbidden("valid tenant required")
	}

	e, err := store.Events().GetByID(ctx, tenantID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("event not found")
		}
		return nil, huma.Error500InternalServerError("failed to fetch event", err)
	}

	if err := tenant.VerifyAccess(ctx, e.TenantID); err != nil {
		return nil, huma.Error404NotFound("event not found")
	}

	return e, nil
}
