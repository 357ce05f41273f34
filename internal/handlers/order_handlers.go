package handlers

import (
	"net/http"

	"foodgo/internal/common"
	"foodgo/internal/middleware"
	"foodgo/internal/models"
	"foodgo/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderService
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

type ownerStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=ACCEPTED PREPARING"`
}

type courierStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=PICKED_UP DELIVERING CANCELED"`
}

type quoteRequest struct {
	RestaurantID uuid.UUID          `json:"restaurantId" validate:"required"`
	Items        []models.OrderLine `json:"items" validate:"required,min=1,dive"`
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return common.NewValidationError("invalid request body")
	}
	return c.Validate(req)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.Create(c.Request().Context(), identity, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ListMyOrders handles GET /api/orders/my
func (h *OrderHandlers) ListMyOrders(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	orders, err := h.orderService.ListMine(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	detail, err := h.orderService.Get(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateOwnerStatus handles PATCH /api/orders/:id/status/owner
func (h *OrderHandlers) UpdateOwnerStatus(c echo.Context) error {
	var req ownerStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.transition(c, c.Param("id"), req.Status)
}

// UpdateCourierStatus handles PATCH /api/orders/:id/status/courier and
// PATCH /api/couriers/orders/:orderId/status.
func (h *OrderHandlers) UpdateCourierStatus(c echo.Context) error {
	var req courierStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	raw := c.Param("id")
	if raw == "" {
		raw = c.Param("orderId")
	}
	return h.transition(c, raw, req.Status)
}

// ConfirmDelivered handles POST /api/orders/:id/confirm-delivered
func (h *OrderHandlers) ConfirmDelivered(c echo.Context) error {
	return h.transition(c, c.Param("id"), models.OrderStatusDelivered)
}

func (h *OrderHandlers) transition(c echo.Context, rawID string, target models.OrderStatus) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(rawID, "id")
	if err != nil {
		return err
	}
	order, err := h.orderService.Transition(c.Request().Context(), identity, id, target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// PreviewQuote handles POST /api/quotes/preview
func (h *OrderHandlers) PreviewQuote(c echo.Context) error {
	var req quoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	quote, err := h.orderService.Quote(c.Request().Context(), req.RestaurantID, req.Items)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quote)
}
