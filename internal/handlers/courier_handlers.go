package handlers

import (
	"net/http"

	"foodgo/internal/common"
	"foodgo/internal/middleware"
	"foodgo/internal/models"
	"foodgo/internal/services"

	"github.com/labstack/echo/v4"
)

// CourierHandlers handles the courier workspace endpoints.
type CourierHandlers struct {
	courierService services.CourierService
}

func NewCourierHandlers(courierService services.CourierService) *CourierHandlers {
	return &CourierHandlers{courierService: courierService}
}

// AvailableOrders handles GET /api/couriers/available-orders
func (h *CourierHandlers) AvailableOrders(c echo.Context) error {
	orders, err := h.courierService.AvailableOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// MyOrders handles GET /api/couriers/my-orders
func (h *CourierHandlers) MyOrders(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	orders, err := h.courierService.MyOrders(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Claim handles POST /api/couriers/claim/:orderId
func (h *CourierHandlers) Claim(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	orderID, err := common.ValidateUUID(c.Param("orderId"), "orderId")
	if err != nil {
		return err
	}
	order, err := h.courierService.Claim(c.Request().Context(), identity, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ReportPosition handles POST /api/couriers/position
func (h *CourierHandlers) ReportPosition(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	var req models.PositionReport
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	pos, err := h.courierService.ReportPosition(c.Request().Context(), identity, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pos)
}
