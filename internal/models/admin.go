package models

import "github.com/google/uuid"

// Contact is a user reference that includes the phone. Admin views only.
type Contact struct {
	ID    uuid.UUID `json:"id"`
	Name  *string   `json:"name"`
	Phone string    `json:"phone"`
}

// RestaurantSummary is a restaurant with its owner and catalog/order counts.
type RestaurantSummary struct {
	*Restaurant
	Owner      Contact `json:"owner"`
	OrderCount int64   `json:"orderCount"`
	MenuCount  int64   `json:"menuCount"`
}

// CourierOrderRef is the compact order line of a courier overview.
type CourierOrderRef struct {
	ID         uuid.UUID   `json:"id"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"totalCents"`
}

// CourierOverview is one courier with the last known position and every
// order ever assigned to them.
type CourierOverview struct {
	*User
	Position *CourierPosition  `json:"position"`
	Orders   []CourierOrderRef `json:"orders"`
}
