package models

import (
	"time"

	"github.com/google/uuid"
)

type Restaurant struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	OwnerID     uuid.UUID  `json:"ownerId" db:"owner_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	Address     string     `json:"address" db:"address"`
	ImageURL    *string    `json:"imageUrl" db:"image_url"`
	Category    string     `json:"category" db:"category"`
	IsOpen      bool       `json:"isOpen" db:"is_open"`
	Lat         *float64   `json:"lat" db:"lat"`
	Lng         *float64   `json:"lng" db:"lng"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	Menu        []MenuItem `json:"menu,omitempty"`
}

type MenuItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	RestaurantID uuid.UUID `json:"restaurantId" db:"restaurant_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	PriceCents   int64     `json:"priceCents" db:"price_cents"`
	ImageURL     *string   `json:"imageUrl" db:"image_url"`
	IsAvailable  bool      `json:"isAvailable" db:"is_available"`
}
