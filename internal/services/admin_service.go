package services

import (
	"context"

	"foodgo/internal/common"
	"foodgo/internal/models"
	"foodgo/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// AdminService serves the read-only back-office views.
type AdminService interface {
	// Users lists accounts, optionally restricted to one role.
	Users(ctx context.Context, identity common.Identity, role models.Role) ([]*models.User, error)
	Restaurants(ctx context.Context, identity common.Identity) ([]*models.RestaurantSummary, error)
	// Couriers lists every courier with their last position and assigned orders.
	Couriers(ctx context.Context, identity common.Identity) ([]*models.CourierOverview, error)
	Orders(ctx context.Context, identity common.Identity) ([]*models.Order, error)
}

type adminService struct {
	users       repositories.UserRepository
	restaurants repositories.RestaurantRepository
	positions   repositories.CourierPositionRepository
	orders      repositories.OrderRepository
}

func NewAdminService(
	users repositories.UserRepository,
	restaurants repositories.RestaurantRepository,
	positions repositories.CourierPositionRepository,
	orders repositories.OrderRepository,
) AdminService {
	return &adminService{users: users, restaurants: restaurants, positions: positions, orders: orders}
}

func requireAdmin(identity common.Identity) error {
	if !identity.IsAdmin() {
		return common.NewForbiddenError("admin access required")
	}
	return nil
}

func (s *adminService) Users(ctx context.Context, identity common.Identity, role models.Role) ([]*models.User, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return s.users.List(ctx, role)
}

func (s *adminService) Restaurants(ctx context.Context, identity common.Identity) ([]*models.RestaurantSummary, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return s.restaurants.ListSummaries(ctx)
}

func (s *adminService) Couriers(ctx context.Context, identity common.Identity) ([]*models.CourierOverview, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	couriers, err := s.users.List(ctx, models.RoleCourier)
	if err != nil {
		return nil, err
	}
	positions, err := s.positions.List(ctx)
	if err != nil {
		return nil, err
	}
	assigned, err := s.orders.ListAssigned(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list assigned orders")
	}

	byCourier := make(map[uuid.UUID]*models.CourierPosition, len(positions))
	for _, pos := range positions {
		byCourier[pos.CourierID] = pos
	}
	ordersByCourier := make(map[uuid.UUID][]models.CourierOrderRef)
	for _, o := range assigned {
		ordersByCourier[*o.CourierID] = append(ordersByCourier[*o.CourierID], models.CourierOrderRef{
			ID:         o.ID,
			Status:     o.Status,
			TotalCents: o.TotalCents,
		})
	}

	out := make([]*models.CourierOverview, 0, len(couriers))
	for _, courier := range couriers {
		orders := ordersByCourier[courier.ID]
		if orders == nil {
			orders = []models.CourierOrderRef{}
		}
		out = append(out, &models.CourierOverview{
			User:     courier,
			Position: byCourier[courier.ID],
			Orders:   orders,
		})
	}
	return out, nil
}

func (s *adminService) Orders(ctx context.Context, identity common.Identity) ([]*models.Order, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return s.orders.ListAll(ctx, adminOrderListLimit)
}
