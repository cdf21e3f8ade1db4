package ws

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	redisstore "github.com/eventlane/eventlane/internal/store/redis"
	"github.com/eventlane/eventlane/internal/tenant"
)

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub) *Hub {
	return &Hub{pubsub: pubsub}
}

// ServeFloorPlan handles WebSocket connections for live floor-plan editing.
// Subscribes to Redis channel "floorplan:<tenantID>:<floorPlanID>" and
// forwards update notifications to connected editor sessions. The channel
// name embeds the session tenant, so a connection can only ever observe its
// own tenant's plans.
func (h *Hub) ServeFloorPlan(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant", http.StatusBadRequest)
		return
	}

	floorPlanIDStr := chi.URLParam(r, "floorPlanID")
	floorPlanID, err := uuid.Parse(floorPlanIDStr)
	if err != nil {
		http.Error(w, "invalid floor plan id", http.StatusBadRequest)
		return
	}

	h.serve(w, r, redisstore.FloorPlanChannel(tenantID, floorPlanID))
}

// ServeEvent handles WebSocket connections for live registration activity on
// an event (new registrations, check-ins during door scanning).
func (h *Hub) ServeEvent(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant.IDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing tenant", http.StatusBadRequest)
		return
	}

	eventIDStr := chi.URLParam(r, "eventID")
	eventID, err := uuid.Parse(eventIDStr)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	h.serve(w, r, redisstore.EventChannel(tenantID, eventID))
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, channel string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// Publish sends an event payload to a Redis channel. This is a convenience
// wrapper for use by API handlers when mutating floor-plan or event state.
func (h *Hub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := h.pubsub.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("ws.Hub.Publish: %w", err)
	}
	return nil
}
