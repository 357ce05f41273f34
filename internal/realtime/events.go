package realtime

import (
	"time"

	"foodgo/internal/models"

	"github.com/google/uuid"
)

// Server-to-client event names.
const (
	EventOrderStatus     = "order:status"
	EventOrderClaimed    = "order:claimed"
	EventOrderCreated    = "order:created"
	EventOrderLocation   = "order:location"
	EventCourierPosition = "courier:position"
	EventNotify          = "notify"
)

// Client-to-server event names.
const (
	EventJoin  = "join"
	EventLeave = "leave"
	EventError = "error"
)

type OrderStatusPayload struct {
	ID     uuid.UUID          `json:"id"`
	Status models.OrderStatus `json:"status"`
}

type OrderClaimedPayload struct {
	OrderID uuid.UUID      `json:"orderId"`
	Courier models.UserRef `json:"courier"`
}

type OrderCreatedPayload struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	TotalCents   int64     `json:"totalCents"`
}

type CourierPositionPayload struct {
	CourierID uuid.UUID `json:"courierId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderLocationPayload struct {
	OrderID   uuid.UUID `json:"orderId"`
	CourierID uuid.UUID `json:"courierId"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updatedAt"`
}
