package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryFeeCents is the flat fee added to every order total.
const DeliveryFeeCents int64 = 299

// MaxLineQuantity caps the quantity of a single order line.
const MaxLineQuantity = 1000

type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	CustomerID      uuid.UUID   `json:"customerId" db:"customer_id"`
	RestaurantID    uuid.UUID   `json:"restaurantId" db:"restaurant_id"`
	CourierID       *uuid.UUID  `json:"courierId" db:"courier_id"`
	Status          OrderStatus `json:"status" db:"status"`
	DeliveryAddress string      `json:"deliveryAddress" db:"delivery_address"`
	DeliveryLat     *float64    `json:"deliveryLat" db:"delivery_lat"`
	DeliveryLng     *float64    `json:"deliveryLng" db:"delivery_lng"`
	TotalCents      int64       `json:"totalCents" db:"total_cents"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
	Items           []OrderItem `json:"items"`

	// RestaurantOwnerID is joined from restaurants for ownership checks.
	RestaurantOwnerID uuid.UUID `json:"-" db:"owner_id"`
}

// IsClaimed reports whether a courier has been bound to the order.
func (o *Order) IsClaimed() bool {
	return o.CourierID != nil && *o.CourierID != uuid.Nil
}

// AssignedTo reports whether userID is the order's courier.
func (o *Order) AssignedTo(userID uuid.UUID) bool {
	return o.IsClaimed() && *o.CourierID == userID
}

// OrderDetail is the single-order view, with the courier's last known position.
type OrderDetail struct {
	*Order
	Courier         *UserRef         `json:"courier"`
	CourierPosition *CourierPosition `json:"courierPosition"`
}

// OrderLine is one requested line of a checkout or quote.
type OrderLine struct {
	MenuItemID uuid.UUID `json:"menuItemId" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0,lte=1000"`
}

// CreateOrderInput carries a customer's checkout request.
type CreateOrderInput struct {
	RestaurantID    uuid.UUID   `json:"restaurantId" validate:"required"`
	Items           []OrderLine `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string      `json:"deliveryAddress" validate:"required,min=3"`
	DeliveryLat     *float64    `json:"deliveryLat" validate:"omitempty,latitude"`
	DeliveryLng     *float64    `json:"deliveryLng" validate:"omitempty,longitude"`
}

// Quote is a priced preview of a set of lines.
type Quote struct {
	SubtotalCents int64 `json:"subtotalCents"`
	DeliveryFee   int64 `json:"deliveryFee"`
	TotalCents    int64 `json:"totalCents"`
}
