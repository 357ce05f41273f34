package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"foodgo/internal/common"
	"foodgo/internal/models"
	"foodgo/internal/realtime"
	"foodgo/internal/repositories"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const adminOrderListLimit = 500

// OrderService is the order lifecycle engine.
type OrderService interface {
	Create(ctx context.Context, identity common.Identity, in *models.CreateOrderInput) (*models.Order, error)
	Quote(ctx context.Context, restaurantID uuid.UUID, lines []models.OrderLine) (*models.Quote, error)
	ListMine(ctx context.Context, identity common.Identity) ([]*models.Order, error)
	Get(ctx context.Context, identity common.Identity, id uuid.UUID) (*models.OrderDetail, error)
	// Transition applies a user-requested status change. Checks run in order:
	// existence, authorization, then the transition table.
	Transition(ctx context.Context, identity common.Identity, id uuid.UUID, target models.OrderStatus) (*models.Order, error)
	// ArchiveDelivered moves DELIVERED orders idle for at least dwell to ARCHIVED.
	ArchiveDelivered(ctx context.Context, dwell time.Duration) ([]*models.Order, error)
}

type orderService struct {
	orders        repositories.OrderRepository
	restaurants   repositories.RestaurantRepository
	users         repositories.UserRepository
	positions     repositories.CourierPositionRepository
	notifications NotificationService
	geocoder      Geocoder
	publisher     realtime.Publisher
	now           func() time.Time
}

func NewOrderService(
	orders repositories.OrderRepository,
	restaurants repositories.RestaurantRepository,
	users repositories.UserRepository,
	positions repositories.CourierPositionRepository,
	notifications NotificationService,
	geocoder Geocoder,
	publisher realtime.Publisher,
) OrderService {
	return &orderService{
		orders:        orders,
		restaurants:   restaurants,
		users:         users,
		positions:     positions,
		notifications: notifications,
		geocoder:      geocoder,
		publisher:     publisher,
		now:           time.Now,
	}
}

func (s *orderService) Create(ctx context.Context, identity common.Identity, in *models.CreateOrderInput) (*models.Order, error) {
	if identity.Role != models.RoleCustomer {
		return nil, common.NewForbiddenError("only customers can place orders")
	}

	restaurant, err := s.restaurants.GetByID(ctx, in.RestaurantID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NewValidationError("unknown restaurant %s", in.RestaurantID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load restaurant")
	}

	items, subtotal, err := s.price(ctx, restaurant.ID, in.Items)
	if err != nil {
		return nil, err
	}

	lat, lng := in.DeliveryLat, in.DeliveryLng
	if lat == nil || lng == nil {
		lat, lng = s.resolveCoordinates(ctx, in.DeliveryAddress)
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:                uuid.New(),
		CustomerID:        identity.ID,
		RestaurantID:      restaurant.ID,
		Status:            models.OrderStatusPending,
		DeliveryAddress:   in.DeliveryAddress,
		DeliveryLat:       lat,
		DeliveryLng:       lng,
		TotalCents:        subtotal + models.DeliveryFeeCents,
		CreatedAt:         now,
		UpdatedAt:         now,
		RestaurantOwnerID: restaurant.OwnerID,
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.Items = items

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("restaurant_id", order.RestaurantID.String()).
		Int64("total_cents", order.TotalCents).
		Msg("order created")

	s.broadcast(ctx, realtime.EventOrderCreated, realtime.OrderCreatedPayload{
		ID:           order.ID,
		RestaurantID: order.RestaurantID,
		TotalCents:   order.TotalCents,
	})
	s.notify(ctx, restaurant.OwnerID, models.NotifyInput{
		Type:    models.NotificationTypeOrderCreated,
		Title:   "New order",
		Message: fmt.Sprintf("New order for %s: %s", restaurant.Name, formatCents(order.TotalCents)),
		OrderID: &order.ID,
	})

	return order, nil
}

func (s *orderService) Quote(ctx context.Context, restaurantID uuid.UUID, lines []models.OrderLine) (*models.Quote, error) {
	if len(lines) == 0 {
		return nil, common.NewValidationError("items must not be empty")
	}
	_, subtotal, err := s.price(ctx, restaurantID, lines)
	if err != nil {
		return nil, err
	}
	return &models.Quote{
		SubtotalCents: subtotal,
		DeliveryFee:   models.DeliveryFeeCents,
		TotalCents:    subtotal + models.DeliveryFeeCents,
	}, nil
}

// maxSubtotalCents leaves room for the delivery fee in an int64 total.
const maxSubtotalCents = math.MaxInt64 - models.DeliveryFeeCents

// price snapshots live menu prices into order items. Every line must name an
// available item of the given restaurant.
func (s *orderService) price(ctx context.Context, restaurantID uuid.UUID, lines []models.OrderLine) ([]models.OrderItem, int64, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 || line.Quantity > models.MaxLineQuantity {
			return nil, 0, common.NewValidationError("quantity for menu item %s must be between 1 and %d", line.MenuItemID, models.MaxLineQuantity)
		}
		ids = append(ids, line.MenuItemID)
	}

	catalog, err := s.restaurants.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, 0, errors.Wrap(err, "load menu items")
	}
	byID := make(map[uuid.UUID]models.MenuItem, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
	}

	var subtotal int64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		menuItem, ok := byID[line.MenuItemID]
		if !ok || menuItem.RestaurantID != restaurantID {
			return nil, 0, common.NewValidationError("unknown menu item %s", line.MenuItemID)
		}
		if !menuItem.IsAvailable {
			return nil, 0, common.NewValidationError("menu item %s is not available", line.MenuItemID)
		}
		if menuItem.PriceCents > (maxSubtotalCents-subtotal)/int64(line.Quantity) {
			return nil, 0, common.NewValidationError("order total is too large")
		}
		item := models.OrderItem{
			ID:         uuid.New(),
			MenuItemID: menuItem.ID,
			Quantity:   line.Quantity,
			PriceCents: menuItem.PriceCents,
		}
		subtotal += item.SubtotalCents()
		items = append(items, item)
	}
	return items, subtotal, nil
}

func (s *orderService) resolveCoordinates(ctx context.Context, address string) (*float64, *float64) {
	if s.geocoder == nil {
		return nil, nil
	}
	point, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Warn().Err(err).Msg("geocoding delivery address failed")
		return nil, nil
	}
	if point == nil {
		return nil, nil
	}
	lat, lng := point.Lat, point.Lng
	return &lat, &lng
}

func (s *orderService) ListMine(ctx context.Context, identity common.Identity) ([]*models.Order, error) {
	switch identity.Role {
	case models.RoleCustomer:
		return s.orders.ListByCustomer(ctx, identity.ID)
	case models.RoleOwner:
		return s.orders.ListByRestaurantOwner(ctx, identity.ID)
	case models.RoleCourier:
		return s.orders.ListByCourier(ctx, identity.ID, models.OrderStatuses)
	case models.RoleAdmin:
		return s.orders.ListAll(ctx, adminOrderListLimit)
	}
	return []*models.Order{}, nil
}

func (s *orderService) Get(ctx context.Context, identity common.Identity, id uuid.UUID) (*models.OrderDetail, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(identity, order) {
		return nil, common.NewForbiddenError("not related to this order")
	}

	detail := &models.OrderDetail{Order: order}
	if order.IsClaimed() {
		detail.Courier = &models.UserRef{ID: *order.CourierID}
		if courier, err := s.users.GetByID(ctx, *order.CourierID); err == nil {
			detail.Courier.Name = courier.DisplayName()
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrap(err, "load courier")
		}

		pos, err := s.positions.GetByCourierID(ctx, *order.CourierID)
		switch {
		case err == nil:
			detail.CourierPosition = pos
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, errors.Wrap(err, "load courier position")
		}
	}
	return detail, nil
}

func (s *orderService) Transition(ctx context.Context, identity common.Identity, id uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	rule, ok := RuleFor(target)
	if !ok {
		return nil, common.NewValidationError("status %s cannot be requested", target)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Authorize(identity, current); err != nil {
		return nil, err
	}
	if !rule.Allows(current.Status) {
		return nil, &common.IllegalTransitionError{From: current.Status, To: target}
	}

	updated, err := s.orders.UpdateStatusIfCurrent(ctx, id, current.Status, target)
	if errors.Is(err, repositories.ErrConditionFailed) {
		return nil, &common.CompareAndSetError{OrderID: id, Expected: current.Status}
	}
	if err != nil {
		return nil, errors.Wrap(err, "update order status")
	}
	updated.Items = current.Items

	log.Info().
		Str("order_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(target)).
		Str("actor", identity.ID.String()).
		Msg("order status changed")

	s.emitStatus(ctx, updated)
	s.notify(ctx, updated.CustomerID, statusNotification(updated))
	if target == models.OrderStatusCanceled {
		s.notify(ctx, updated.RestaurantOwnerID, statusNotification(updated))
	}
	return updated, nil
}

func (s *orderService) ArchiveDelivered(ctx context.Context, dwell time.Duration) ([]*models.Order, error) {
	archived, err := s.orders.ArchiveDeliveredIdle(ctx, dwell)
	if err != nil {
		return nil, err
	}
	for _, order := range archived {
		s.emitStatus(ctx, order)
		s.notify(ctx, order.CustomerID, statusNotification(order))
	}
	return archived, nil
}

func (s *orderService) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, common.NewNotFoundError("order")
	}
	if err != nil {
		return nil, errors.Wrap(err, "load order")
	}
	return order, nil
}

func (s *orderService) emitStatus(ctx context.Context, order *models.Order) {
	payload := realtime.OrderStatusPayload{ID: order.ID, Status: order.Status}
	if err := s.publisher.ToRoom(ctx, common.OrderRoom(order.ID), realtime.EventOrderStatus, payload); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to emit order status")
	}
}

func (s *orderService) broadcast(ctx context.Context, event string, payload any) {
	if err := s.publisher.Broadcast(ctx, event, payload); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("failed to broadcast event")
	}
}

func (s *orderService) notify(ctx context.Context, userID uuid.UUID, in models.NotifyInput) {
	if _, err := s.notifications.Notify(ctx, userID, in); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to notify user")
	}
}

func statusNotification(order *models.Order) models.NotifyInput {
	return models.NotifyInput{
		Type:    models.NotificationTypeOrderStatus,
		Title:   "Order update",
		Message: fmt.Sprintf("Order %s is now %s", shortID(order.ID), order.Status),
		OrderID: &order.ID,
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
