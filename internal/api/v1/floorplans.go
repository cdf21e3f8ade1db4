package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/floorplan"
	"github.com/eventlane/eventlane/internal/plan"
	redisstore "github.com/eventlane/eventlane/internal/store/redis"
	"github.com/eventlane/eventlane/internal/tenant"
)

type CreateFloorPlanInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
	Body    struct {
		Name    string               `json:"name" minLength:"1" maxLength:"255" doc:"Floor plan name"`
		Width   float64              `json:"width" minimum:"1" doc:"Canvas width"`
		Height  float64              `json:"height" minimum:"1" doc:"Canvas height"`
		Objects []domain.FloorObject `json:"objects,omitempty" doc:"Placed objects"`
	}
}

type CreateFloorPlanOutput struct {
	Body *domain.FloorPlan
}

type ListFloorPlansInput struct {
	EventID uuid.UUID `path:"eventID" doc:"Event ID"`
}

type ListFloorPlansOutput struct {
	Body []*domain.FloorPlan
}

type GetFloorPlanInput struct {
	FloorPlanID uuid.UUID `path:"floorPlanID" doc:"Floor plan ID"`
}

type GetFloorPlanOutput struct {
	Body *domain.FloorPlan
}

type UpdateFloorPlanInput struct {
	FloorPlanID uuid.UUID `path:"floorPlanID" doc:"Floor plan ID"`
	Body        struct {
		Name    string               `json:"name" minLength:"1" maxLength:"255" doc:"Floor plan name"`
		Width   float64              `json:"width" minimum:"1" doc:"Canvas width"`
		Height  float64              `json:"height" minimum:"1" doc:"Canvas height"`
		Objects []domain.FloorObject `json:"objects,omitempty" doc:"Placed objects"`
	}
}

type UpdateFloorPlanOutput struct {
	Body *domain.FloorPlan
}

type DeleteFloorPlanInput struct {
	FloorPlanID uuid.UUID `path:"floorPlanID" doc:"Floor plan ID"`
}

type DeleteFloorPlanOutput struct {
	Body struct {
		Deleted bool `json:"deleted"`
	}
}

type ObjectSeats struct {
	ObjectID uuid.UUID        `json:"object_id"`
	Label    string           `json:"label,omitempty"`
	Seats    []floorplan.Seat `json:"seats"`
}

type FloorPlanSeatsInput struct {
	FloorPlanID uuid.UUID `path:"floorPlanID" doc:"Floor plan ID"`
}

type FloorPlanSeatsOutput struct {
	Body struct {
		FloorPlanID uuid.UUID     `json:"floor_plan_id"`
		Objects     []ObjectSeats `json:"objects"`
		TotalSeats  int           `json:"total_seats"`
	}
}

// floorPlanUpdate is the payload published on the floor-plan channel when a
// plan changes, consumed by live editor sessions over the websocket hub.
type floorPlanUpdate struct {
	Type        string    `json:"type"` // "updated" or "deleted"
	FloorPlanID uuid.UUID `json:"floor_plan_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func RegisterFloorPlanRoutes(api huma.API, store DataStore, pub Publisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-floor-plan",
		Method:      http.MethodPost,
		Path:        "/events/{eventID}/floor-plans",
		Summary:     "Create a floor plan for an event",
		Tags:        []string{"FloorPlans"},
	}, func(ctx context.Context, input *CreateFloorPlanInput) (*CreateFloorPlanOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		if err := requireFeature(ctx, store, e.TenantID, "floor_plans"); err != nil {
			return nil, err
		}

		now := time.Now()
		fp := &domain.FloorPlan{
			ID:        uuid.New(),
			TenantID:  e.TenantID,
			EventID:   e.ID,
			Name:      input.Body.Name,
			Width:     input.Body.Width,
			Height:    input.Body.Height,
			Objects:   normalizeObjects(input.Body.Objects),
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.FloorPlans().Create(ctx, fp); err != nil {
			return nil, huma.Error500InternalServerError("failed to create floor plan", err)
		}

		return &CreateFloorPlanOutput{Body: fp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-floor-plans",
		Method:      http.MethodGet,
		Path:        "/events/{eventID}/floor-plans",
		Summary:     "List floor plans for an event",
		Tags:        []string{"FloorPlans"},
	}, func(ctx context.Context, input *ListFloorPlansInput) (*ListFloorPlansOutput, error) {
		e, err := fetchEvent(ctx, store, input.EventID)
		if err != nil {
			return nil, err
		}

		plans, err := store.FloorPlans().ListByEvent(ctx, e.TenantID, e.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list floor plans", err)
		}

		return &ListFloorPlansOutput{Body: plans}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-floor-plan",
		Method:      http.MethodGet,
		Path:        "/floor-plans/{floorPlanID}",
		Summary:     "Get a floor plan by ID",
		Tags:        []string{"FloorPlans"},
	}, func(ctx context.Context, input *GetFloorPlanInput) (*GetFloorPlanOutput, error) {
		fp, err := fetchFloorPlan(ctx, store, input.FloorPlanID)
		if err != nil {
			return nil, err
		}

		return &GetFloorPlanOutput{Body: fp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-floor-plan",
		Method:      http.MethodPut,
		Path:        "/floor-plans/{floorPlanID}",
		Summary:     "Update a floor plan",
		Tags:        []string{"FloorPlans"},
	}, func(ctx context.Context, input *UpdateFloorPlanInput) (*UpdateFloorPlanOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		fp, err := fetchFloorPlan(ctx, store, input.FloorPlanID)
		if err != nil {
			return nil, err
		}

		fp.Name = input.Body.Name
		fp.Width = input.Body.Width
		fp.Height = input.Body.Height
		fp.Objects = normalizeObjects(input.Body.Objects)
		fp.UpdatedAt = time.Now()

		if err := store.FloorPlans().Update(ctx, fp); err != nil {
			return nil, huma.Error500InternalServerError("failed to update floor plan", err)
		}

		publishFloorPlanUpdate(ctx, pub, fp.TenantID, fp.ID, "updated", fp.UpdatedAt)

		return &UpdateFloorPlanOutput{Body: fp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-floor-plan",
		Method:      http.MethodDelete,
		Path:        "/floor-plans/{floorPlanID}",
		Summary:     "Delete a floor plan",
		Tags:        []string{"FloorPlans"},
	}, func(ctx context.Context, input *DeleteFloorPlanInput) (*DeleteFloorPlanOutput, error) {
		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		fp, err := fetchFloorPlan(ctx, store, input.FloorPlanID)
		if err != nil {
			return nil, err
		}

		if err := store.FloorPlans().Delete(ctx, fp.TenantID, fp.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete floor plan", err)
		}

		publishFloorPlanUpdate(ctx, pub, fp.TenantID, fp.ID, "deleted", time.Now())

		out := &DeleteFloorPlanOutput{}
		out.Body.Deleted = true
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "floor-plan-seats",
		Method:      http.MethodGet,
		Path:        "/floor-plans/{floorPlanID}/seats",
		Summary:     "Generate seat positions for every object on a floor plan",
		Tags:        []string{"FloorPlans"},
	}, func(ctx context.Context, input *FloorPlanSeatsInput) (*FloorPlanSeatsOutput, error) {
		fp, err := fetchFloorPlan(ctx, store, input.FloorPlanID)
		if err != nil {
			return nil, err
		}

		out := &FloorPlanSeatsOutput{}
		out.Body.FloorPlanID = fp.ID
		out.Body.Objects = make([]ObjectSeats, 0, len(fp.Objects))

		for i := range fp.Objects {
			obj := &fp.Objects[i]
			seats := floorplan.GenerateSeats(obj)
			out.Body.Objects = append(out.Body.Objects, ObjectSeats{
				ObjectID: obj.ID,
				Label:    obj.Label,
				Seats:    seats,
			})
			out.Body.TotalSeats += len(seats)
		}

		return out, nil
	})
}

func fetchFloorPlan(ctx context.Context, store DataStore, floorPlanID uuid.UUID) (*domain.FloorPlan, error) {
	tenantID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, huma.Error403Forbidden("valid tenant required")
	}

	fp, err := store.FloorPlans().GetByID(ctx, tenantID, floorPlanID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("floor plan not found")
		}
		return nil, huma.Error500InternalServerError("failed to fetch floor plan", err)
	}

	if err := tenant.VerifyAccess(ctx, fp.TenantID); err != nil {
		return nil, huma.Error404NotFound("floor plan not found")
	}

	return fp, nil
}

// requireFeature checks the tenant's plan tier for a named feature.
func requireFeature(ctx context.Context, store DataStore, tenantID, feature string) error {
	t, err := store.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		return huma.Error500InternalServerError("failed to load tenant", err)
	}

	limits, err := plan.LimitsFor(t.Plan)
	if err != nil {
		return huma.Error500InternalServerError("tenant carries unknown plan tier", err)
	}

	if !limits.HasFeature(feature) {
		return huma.Error403Forbidden("plan " + t.Plan + " does not include " + feature)
	}

	return nil
}

// normalizeObjects assigns IDs to objects the client created without one, so
// seat IDs derived from object IDs stay stable from the first save on.
func normalizeObjects(objects []domain.FloorObject) []domain.FloorObject {
	for i := range objects {
		if objects[i].ID == uuid.Nil {
			objects[i].ID = uuid.New()
		}
	}
	return objects
}

func publishFloorPlanUpdate(ctx context.Context, pub Publisher, tenantID string, floorPlanID uuid.UUID, updateType string, at time.Time) {
	if pub == nil {
		return
	}

	payload, err := json.Marshal(floorPlanUpdate{
		Type:        updateType,
		FloorPlanID: floorPlanID,
		UpdatedAt:   at,
	})
	if err != nil {
		return
	}

	if err := pub.Publish(ctx, redisstore.FloorPlanChannel(tenantID, floorPlanID), payload); err != nil {
		log.Warn().Err(err).Str("floor_plan_id", floorPlanID.String()).Msg("floorplans: publish update failed")
	}
}
