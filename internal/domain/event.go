package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusArchived  EventStatus = "archived"
)

// ValidTransition checks if an event status transition is allowed.
// Allowed: draft->published, published->archived, published->draft (unpublish).
func (s EventStatus) ValidTransition(to EventStatus) bool {
	switch s {
	case EventStatusDraft:
		return to == EventStatusPublished
	case EventStatusPublished:
		return to == EventStatusArchived || to == EventStatusDraft
	default:
		return false
	}
}

type Event struct {
	ID          uuid.UUID
	TenantID    string
	Name        string
	Slug        string
	Description string
	Venue       string
	Status      EventStatus
	Capacity    int
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventSession is an agenda slot within an event.
type EventSession struct {
	ID          uuid.UUID
	TenantID    string
	EventID     uuid.UUID
	Title       string
	SpeakerName string
	Room        string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
}

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, e *Event) error
	List(ctx context.Context, tenantID string) ([]*Event, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}

type SessionRepository interface {
	Create(ctx context.Context, s *EventSession) error
	ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*EventSession, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}
