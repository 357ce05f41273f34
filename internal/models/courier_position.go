package models

import (
	"time"

	"github.com/google/uuid"
)

// CourierPosition is the latest reported location of one courier.
type CourierPosition struct {
	CourierID uuid.UUID `json:"courierId" db:"courier_id"`
	Lat       float64   `json:"lat" db:"lat"`
	Lng       float64   `json:"lng" db:"lng"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Point is a plain coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PositionReport is the body of a courier position update. Both
// coordinates are required; zero is a valid value.
type PositionReport struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}
