package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a targeted notification.
type NotificationType string

const (
	NotificationTypeInfo         NotificationType = "INFO"
	NotificationTypeOrderCreated NotificationType = "ORDER_CREATED"
	NotificationTypeOrderClaimed NotificationType = "ORDER_CLAIMED"
	NotificationTypeOrderStatus  NotificationType = "ORDER_STATUS"
)

// Notification is a durable record of one event delivered to one user.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	OrderID   *uuid.UUID       `json:"orderId" db:"order_id"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// NotifyInput describes a notification before it is persisted.
type NotifyInput struct {
	Type    NotificationType
	Title   string
	Message string
	OrderID *uuid.UUID
}
