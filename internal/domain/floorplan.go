package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ObjectType string

const (
	ObjectTypeGrid       ObjectType = "grid"
	ObjectTypeRoundTable ObjectType = "round_table"
	ObjectTypeStage      ObjectType = "stage"
	ObjectTypeEntry      ObjectType = "entry"
	ObjectTypeExit       ObjectType = "exit"
)

// FloorObject is a placed element on a floor plan. Which fields are
// meaningful depends on Type: grids use Rows/Cols/SeatSize/Spacing/Gaps,
// round tables use SeatCount/TableRadius/SeatRadius, gate-like objects
// (stage, entry, exit) carry position only.
type FloorObject struct {
	ID          uuid.UUID
	Type        ObjectType
	Label       string
	X           float64
	Y           float64
	Rows        int
	Cols        int
	SeatSize    float64
	Spacing     float64
	Gaps        []string // "row-col" pairs excluded from seat generation
	SeatCount   int
	TableRadius float64
	SeatRadius  float64
}

type FloorPlan struct {
	ID        uuid.UUID
	TenantID  string
	EventID   uuid.UUID
	Name      string
	Width     float64
	Height    float64
	Objects   []FloorObject // stored as a JSONB document
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FloorPlanRepository interface {
	Create(ctx context.Context, fp *FloorPlan) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*FloorPlan, error)
	Update(ctx context.Context, fp *FloorPlan) error
	ListByEvent(ctx context.Context, tenantID string, eventID uuid.UUID) ([]*FloorPlan, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}
