package room

import (
	"context"
	"time"
)

type OperatingHours struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}

type Room struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	RoomType       Type           `json:"roomType"`
	Capacity       int            `json:"capacity"`
	Facilities     []string       `json:"facilities"`
	Images         []string       `json:"images"`
	LayoutImage    string         `json:"layoutImage,omitempty"`
	IsActive       bool           `json:"isActive"`
	OperatingHours OperatingHours `json:"operatingHours"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Catalog is the read side used by booking submission and the HTTP layer.
type Catalog interface {
	ListActive(ctx context.Context) ([]Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
}

// Inventory lists every room, active or not.
type Inventory interface {
	ListAll(ctx context.Context) ([]Room, error)
}
