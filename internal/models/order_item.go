package models

import (
	"github.com/google/uuid"
)

// OrderItem is a priced line of an order. PriceCents is the unit price at checkout.
type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"orderId" db:"order_id"`
	MenuItemID uuid.UUID `json:"menuItemId" db:"menu_item_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	PriceCents int64     `json:"priceCents" db:"price_cents"`
}

// SubtotalCents returns the line total.
func (i OrderItem) SubtotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}
