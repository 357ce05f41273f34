package services

import (
	"context"

	"foodgo/internal/common"
	"foodgo/internal/models"
	"foodgo/internal/realtime"
	"foodgo/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// CourierService binds couriers to orders and relays their positions.
type CourierService interface {
	// AvailableOrders lists unclaimed orders in a claimable status, oldest first.
	AvailableOrders(ctx context.Context) ([]*models.Order, error)
	// MyOrders lists the caller's orders that are still in progress.
	MyOrders(ctx context.Context, identity common.Identity) ([]*models.Order, error)
	// Claim binds the caller to the order. Of two concurrent claims exactly one wins.
	Claim(ctx context.Context, identity common.Identity, orderID uuid.UUID) (*models.Order, error)
	ReportPosition(ctx context.Context, identity common.Identity, report models.PositionReport) (*models.CourierPosition, error)
}

type courierService struct {
	orders        repositories.OrderRepository
	positions     repositories.CourierPositionRepository
	notifications NotificationService
	publisher     realtime.Publisher
}

func NewCourierService(
	orders repositories.OrderRepository,
	positions repositories.CourierPositionRepository,
	notifications NotificationService,
	publisher realtime.Publisher,
) CourierService {
	return &courierService{
		orders:        orders,
		positions:     positions,
		notifications: notifications,
		publisher:     publisher,
	}
}

func requireCourier(identity common.Identity) error {
	if !identity.Role.In(models.RoleCourier, models.RoleAdmin) {
		return common.NewForbiddenError("courier role required")
	}
	return nil
}

func (s *courierService) AvailableOrders(ctx context.Context) ([]*models.Order, error) {
	return s.orders.ListAvailable(ctx, models.ClaimableStatuses)
}

func (s *courierService) MyOrders(ctx context.Context, identity common.Identity) ([]*models.Order, error) {
	if err := requireCourier(identity); err != nil {
		return nil, err
	}
	return s.orders.ListByCourier(ctx, identity.ID, models.ActiveCourierStatuses)
}

func (s *courierService) Claim(ctx context.Context, identity common.Identity, orderID uuid.UUID) (*models.Order, error) {
	if err := requireCourier(identity); err != nil {
		return nil, err
	}

	current, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NewNotFoundError("order")
	}
	if err != nil {
		return nil, errors.Wrap(err, "load order")
	}
	if err := claimable(current); err != nil {
		return nil, err
	}

	claimed, err := s.orders.ClaimIfUnassigned(ctx, orderID, identity.ID, models.ClaimableStatuses)
	if errors.Is(err, repositories.ErrConditionFailed) {
		return nil, s.explainLostClaim(ctx, orderID, current.Status)
	}
	if err != nil {
		return nil, errors.Wrap(err, "claim order")
	}
	claimed.Items = current.Items

	log.Info().
		Str("order_id", orderID.String()).
		Str("courier_id", identity.ID.String()).
		Msg("order claimed")

	payload := realtime.OrderClaimedPayload{
		OrderID: orderID,
		Courier: models.UserRef{ID: identity.ID, Name: identity.Name},
	}
	if err := s.publisher.ToRoom(ctx, common.OrderRoom(orderID), realtime.EventOrderClaimed, payload); err != nil {
		log.Warn().Err(err).Str("order_id", orderID.String()).Msg("failed to emit order claimed")
	}

	note := models.NotifyInput{
		Type:    models.NotificationTypeOrderClaimed,
		Title:   "Courier assigned",
		Message: "A courier has been assigned to order " + shortID(orderID),
		OrderID: &claimed.ID,
	}
	for _, userID := range []uuid.UUID{claimed.CustomerID, claimed.RestaurantOwnerID} {
		if _, err := s.notifications.Notify(ctx, userID, note); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to notify user")
		}
	}
	return claimed, nil
}

func claimable(order *models.Order) error {
	if order.IsClaimed() {
		return &common.AlreadyAssignedError{OrderID: order.ID}
	}
	if !order.Status.In(models.ClaimableStatuses...) {
		return &common.NotAvailableError{OrderID: order.ID, Status: order.Status}
	}
	return nil
}

// explainLostClaim re-reads the order after the conditional write matched nothing.
func (s *courierService) explainLostClaim(ctx context.Context, orderID uuid.UUID, seen models.OrderStatus) error {
	latest, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		return common.NewNotFoundError("order")
	}
	if err != nil {
		return errors.Wrap(err, "reload order")
	}
	if err := claimable(latest); err != nil {
		return err
	}
	return &common.CompareAndSetError{OrderID: orderID, Expected: seen}
}

func (s *courierService) ReportPosition(ctx context.Context, identity common.Identity, report models.PositionReport) (*models.CourierPosition, error) {
	if err := requireCourier(identity); err != nil {
		return nil, err
	}

	if report.Lat == nil || report.Lng == nil {
		return nil, common.NewValidationError("lat and lng are required")
	}

	pos, err := s.positions.Upsert(ctx, identity.ID, *report.Lat, *report.Lng)
	if err != nil {
		return nil, errors.Wrap(err, "store courier position")
	}

	if err := s.publisher.Broadcast(ctx, realtime.EventCourierPosition, realtime.CourierPositionPayload{
		CourierID: pos.CourierID,
		Lat:       pos.Lat,
		Lng:       pos.Lng,
		UpdatedAt: pos.UpdatedAt,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to broadcast courier position")
	}

	active, err := s.orders.ListByCourier(ctx, identity.ID, models.ActiveCourierStatuses)
	if err != nil {
		log.Warn().Err(err).Str("courier_id", identity.ID.String()).Msg("failed to list active orders for location events")
		return pos, nil
	}
	for _, order := range active {
		payload := realtime.OrderLocationPayload{
			OrderID:   order.ID,
			CourierID: pos.CourierID,
			Lat:       pos.Lat,
			Lng:       pos.Lng,
			UpdatedAt: pos.UpdatedAt,
		}
		if err := s.publisher.ToRoom(ctx, common.OrderRoom(order.ID), realtime.EventOrderLocation, payload); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to emit order location")
		}
	}
	return pos, nil
}
