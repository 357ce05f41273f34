package services

import (
	"foodgo/internal/common"
	"foodgo/internal/models"

	"github.com/google/uuid"
)

// Relation names which party of an order an actor must be.
type Relation int

const (
	RelationRestaurantOwner Relation = iota
	RelationAssignedCourier
	RelationCustomer
)

func (r Relation) String() string {
	switch r {
	case RelationRestaurantOwner:
		return "restaurant owner"
	case RelationAssignedCourier:
		return "assigned courier"
	case RelationCustomer:
		return "customer"
	}
	return "unknown"
}

// TransitionRule gates a user-requested move into one target status.
// An empty From means any non-terminal status.
type TransitionRule struct {
	From     []models.OrderStatus
	Actor    models.Role
	Relation Relation
}

// transitionRules is keyed by target. ARCHIVED is absent: only the sweeper reaches it.
var transitionRules = map[models.OrderStatus]TransitionRule{
	models.OrderStatusAccepted: {
		From:     []models.OrderStatus{models.OrderStatusPending},
		Actor:    models.RoleOwner,
		Relation: RelationRestaurantOwner,
	},
	models.OrderStatusPreparing: {
		From:     []models.OrderStatus{models.OrderStatusAccepted},
		Actor:    models.RoleOwner,
		Relation: RelationRestaurantOwner,
	},
	models.OrderStatusPickedUp: {
		From:     []models.OrderStatus{models.OrderStatusPreparing},
		Actor:    models.RoleCourier,
		Relation: RelationAssignedCourier,
	},
	models.OrderStatusDelivering: {
		From:     []models.OrderStatus{models.OrderStatusPickedUp},
		Actor:    models.RoleCourier,
		Relation: RelationAssignedCourier,
	},
	models.OrderStatusDelivered: {
		From:     []models.OrderStatus{models.OrderStatusDelivering},
		Actor:    models.RoleCustomer,
		Relation: RelationCustomer,
	},
	models.OrderStatusCanceled: {
		Actor:    models.RoleCourier,
		Relation: RelationAssignedCourier,
	},
}

// RuleFor returns the rule for a user-requested target status.
func RuleFor(target models.OrderStatus) (TransitionRule, bool) {
	rule, ok := transitionRules[target]
	return rule, ok
}

// Allows reports whether the rule permits leaving from.
func (r TransitionRule) Allows(from models.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if len(r.From) == 0 {
		return true
	}
	return from.In(r.From...)
}

// Authorize checks role and relationship. ADMIN passes both.
func (r TransitionRule) Authorize(identity common.Identity, order *models.Order) error {
	if identity.IsAdmin() {
		return nil
	}
	if identity.Role != r.Actor {
		return common.NewForbiddenError("role %s cannot move an order to this status", identity.Role)
	}
	if !isRelated(identity.ID, order, r.Relation) {
		return common.NewForbiddenError("caller is not the order's %s", r.Relation)
	}
	return nil
}

func isRelated(userID uuid.UUID, order *models.Order, relation Relation) bool {
	switch relation {
	case RelationRestaurantOwner:
		return order.RestaurantOwnerID == userID
	case RelationAssignedCourier:
		return order.AssignedTo(userID)
	case RelationCustomer:
		return order.CustomerID == userID
	}
	return false
}

// canView reports whether identity may read the order at all.
func canView(identity common.Identity, order *models.Order) bool {
	return identity.IsAdmin() ||
		order.CustomerID == identity.ID ||
		order.RestaurantOwnerID == identity.ID ||
		order.AssignedTo(identity.ID)
}
