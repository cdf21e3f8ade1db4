package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/tenant"
)

type CreateRegistrationInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
	Body    struct {
		AttendeeName  string `json:"attendee_name" minLength:"1" maxLength:"255" doc:"Attendee display name"`
		AttendeeEmail string `json:"attendee_email" minLength:"3" maxLength:"255" doc:"Attendee email"`
		TicketType    string `json:"ticket_type,omitempty" maxLength:"63" doc:"Ticket type name"`
		SeatLabel     string `json:"seat_label,omitempty" maxLength:"15" doc:"Assigned seat label"`
	}
}

type CreateRegistrationOutput struct {
	Body tenant.Record
}

type ListRegistrationsInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
	Status  string    `query:"status" doc:"Filter by status (confirmed, waitlist, cancelled)"`
	Limit   int       `query:"limit" minimum:"1" maximum:"500" default:"100" doc:"Max results"`
	Offset  int       `query:"offset" minimum:"0" default:"0" doc:"Offset for pagination"`
}

type ListRegistrationsOutput struct {
	Body struct {
		Registrations []tenant.Record `json:"registrations"`
		Total         int64           `json:"total"`
	}
}

type CheckInInput struct {
	EventID        uuid.UUID `path:"eventID" doc:"Event ID"`
	RegistrationID uuid.UUID `path:"registrationID" doc:"Registration ID"`
}

type CheckInOutput struct {
	Body tenant.Record
}

type CancelRegistrationsInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
	Body    struct {
		RegistrationIDs []uuid.UUID `json:"registration_ids" minItems:"1" doc:"Registrations to cancel"`
	}
}

type CancelRegistrationsOutput struct {
	Body struct {
		Cancelled int64 `json:"cancelled"`
	}
}

type PurgeCancelledInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
}

type PurgeCancelledOutput struct {
	Body struct {
		Deleted int64 `json:"deleted"`
	}
}

type RegistrationStatsInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
}

type RegistrationStatsOutput struct {
	Body struct {
		ByStatus  map[string]int64 `json:"by_status"`
		CheckedIn int64            `json:"checked_in"`
	}
}

// RegisterRegistrationRoutes wires attendee registration endpoints. They run
// on the scope-decorated generic datastore: handlers never mention the tenant
// and the decorator injects it into every filter and payload from the
// request context.
func RegisterRegistrationRoutes(api huma.API, store DataStore, ds tenant.Datastore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-registration",
		Method:      http.MethodPost,
		Path:        "/events/{eventID}/registrations",
		Summary:     "Register an attendee for an event",
		Tags:        []string{"Registrations"},
	}, func(ctx context.Context, input *CreateRegistrationInput) (*CreateRegistrationOutput, error) {
		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		status := domain.RegistrationStatusConfirmed
		if e.Capacity > 0 {
			confirmed, err := ds.Count(ctx, tenant.EntityRegistration, tenant.Args{Where: map[string]any{
				"eventId": e.ID,
				"status":  string(domain.RegistrationStatusConfirmed),
			}})
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to count registrations", err)
			}
			if confirmed >= int64(e.Capacity) {
				status = domain.RegistrationStatusWaitlist
			}
		}

		now := time.Now()
		record, err := ds.Create(ctx, tenant.EntityRegistration, tenant.Args{Data: map[string]any{
			"id":            uuid.New(),
			"eventId":       e.ID,
			"attendeeName":  input.Body.AttendeeName,
			"attendeeEmail": input.Body.AttendeeEmail,
			"ticketType":    input.Body.TicketType,
			"status":        string(status),
			"checkedIn":     false,
			"seatLabel":     input.Body.SeatLabel,
			"createdAt":     now,
			"updatedAt":     now,
		}})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create registration", err)
		}

		return &CreateRegistrationOutput{Body: record}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-registrations",
		Method:      http.MethodGet,
		Path:        "/events/{eventID}/registrations",
		Summary:     "List registrations for an event",
		Tags:        []string{"Registrations"},
	}, func(ctx context.Context, input *ListRegistrationsInput) (*ListRegistrationsOutput, error) {
		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		where := map[string]any{"eventId": e.ID}
		if input.Status != "" {
			where["status"] = input.Status
		}

		records, err := ds.FindMany(ctx, tenant.EntityRegistration, tenant.Args{
			Where:   where,
			OrderBy: "createdAt",
			Limit:   input.Limit,
			Offset:  input.Offset,
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list registrations", err)
		}

		total, err := ds.Count(ctx, tenant.EntityRegistration, tenant.Args{Where: where})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count registrations", err)
		}

		out := &ListRegistrationsOutput{}
		out.Body.Registrations = records
		out.Body.Total = total
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-in-registration",
		Method:      http.MethodPost,
		Path:        "/events/{eventID}/registrations/{registrationID}/check-in",
		Summary:     "Check an attendee in",
		Tags:        []string{"Registrations"},
	}, func(ctx context.Context, input *CheckInInput) (*CheckInOutput, error) {
		if _, err := fetchEvent(ctx, store, input.EventID); err != nil {
			return nil, err
		}

		record, err := ds.Update(ctx, tenant.EntityRegistration, tenant.Args{
			Where: map[string]any{"id": input.RegistrationID, "eventId": input.EventID},
			Data:  map[string]any{"checkedIn": true, "updatedAt": time.Now()},
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("registration not found")
			}
			return nil, huma.Error500InternalServerError("failed to check in", err)
		}

		return &CheckInOutput{Body: record}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "cancel-registrations",
		Method:      http.MethodPost,
		Path:        "/events/{eventID}/registrations/cancel",
		Summary:     "Cancel a batch of registrations",
		Tags:        []string{"Registrations"},
	}, func(ctx context.Context, input *CancelRegistrationsInput) (*CancelRegistrationsOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		if _, err := fetchEvent(ctx, store, input.EventID); err != nil {
			return nil, err
		}

		ids := make([]any, len(input.Body.RegistrationIDs))
		for i, id := range input.Body.RegistrationIDs {
			ids[i] = id
		}

		cancelled, err := ds.UpdateMany(ctx, tenant.EntityRegistration, tenant.Args{
			Where: map[string]any{"id": ids, "eventId": input.EventID},
			Data:  map[string]any{"status": string(domain.RegistrationStatusCancelled), "updatedAt": time.Now()},
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to cancel registrations", err)
		}

		out := &CancelRegistrationsOutput{}
		out.Body.Cancelled = cancelled
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "purge-cancelled-registrations",
		Method:      http.MethodDelete,
		Path:        "/events/{eventID}/registrations/cancelled",
		Summary:     "Delete all cancelled registrations for an event",
		Tags:        []string{"Registrations"},
	}, func(ctx context.Context, input *PurgeCancelledInput) (*PurgeCancelledOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		if _, err := fetchEvent(ctx, store, input.EventID); err != nil {
			return nil, err
		}

		deleted, err := ds.DeleteMany(ctx, tenant.EntityRegistration, tenant.Args{
			Where: map[string]any{"eventId": input.EventID, "status": string(domain.RegistrationStatusCancelled)},
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to purge registrations", err)
		}

		out := &PurgeCancelledOutput{}
		out.Body.Deleted = deleted
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "registration-stats",
		Method:      http.MethodGet,
		Path:        "/events/{eventID}/registrations/stats",
		Summary:     "Registration counts by status plus check-in count",
		Tags:        []string{"Registrations"},
	}, func(ctx context.Context, input *RegistrationStatsInput) (*RegistrationStatsOutput, error) {
		if _, err := fetchEvent(ctx, store, input.EventID); err != nil {
			return nil, err
		}

		groups, err := ds.GroupBy(ctx, tenant.EntityRegistration, "status", tenant.Args{
			Where: map[string]any{"eventId": input.EventID},
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to group registrations", err)
		}

		checkedIn, err := ds.Count(ctx, tenant.EntityRegistration, tenant.Args{
			Where: map[string]any{"eventId": input.EventID, "checkedIn": true},
		})
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count check-ins", err)
		}

		out := &RegistrationStatsOutput{}
		out.Body.ByStatus = make(map[string]int64, len(groups))
		for _, g := range groups {
			if key, ok := g.Key.(string); ok {
				out.Body.ByStatus[key] = g.Count
			}
		}
		out.Body.CheckedIn = checkedIn
		return out, nil
	})
}
