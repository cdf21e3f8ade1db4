package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusWaitlist  RegistrationStatus = "waitlist"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

type Registration struct {
	ID            uuid.UUID
	TenantID      string
	EventID       uuid.UUID
	AttendeeName  string
	AttendeeEmail string
	TicketType    string
	Status        RegistrationStatus
	CheckedIn     bool
	SeatLabel     string // assigned seat, empty for unseated events
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RegistrationRepository interface {
	Create(ctx context.Context, r *Registration) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Registration, error)
	ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID, limit, offset int) ([]*Registration, error)
	CountByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) (int64, error)
	SetCheckedIn(ctx context.Context, tenantID string, id uuid.UUID, checkedIn bool) error
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}
