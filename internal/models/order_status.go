package models

// OrderStatus is the closed set of lifecycle states of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusAccepted   OrderStatus = "ACCEPTED"
	OrderStatusPreparing  OrderStatus = "PREPARING"
	OrderStatusPickedUp   OrderStatus = "PICKED_UP"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusArchived   OrderStatus = "ARCHIVED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// OrderStatuses lists every state in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusPreparing,
	OrderStatusPickedUp,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusArchived,
	OrderStatusCanceled,
}

// ClaimableStatuses are the states in which a courier may claim an unassigned order.
var ClaimableStatuses = []OrderStatus{OrderStatusAccepted, OrderStatusPreparing}

// ActiveCourierStatuses are the states in which an order is still on a courier's plate.
var ActiveCourierStatuses = []OrderStatus{
	OrderStatusAccepted,
	OrderStatusPreparing,
	OrderStatusPickedUp,
	OrderStatusDelivering,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusArchived || s == OrderStatusCanceled
}

// In reports whether s appears in statuses.
func (s OrderStatus) In(statuses ...OrderStatus) bool {
	for _, candidate := range statuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// StatusStrings converts statuses into plain strings for query parameters.
func StatusStrings(statuses []OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
