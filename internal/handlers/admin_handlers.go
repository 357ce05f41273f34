package handlers

import (
	"net/http"

	"foodgo/internal/common"
	"foodgo/internal/middleware"
	"foodgo/internal/models"
	"foodgo/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers serves the back-office read views.
type AdminHandlers struct {
	adminService services.AdminService
}

func NewAdminHandlers(adminService services.AdminService) *AdminHandlers {
	return &AdminHandlers{adminService: adminService}
}

// Users handles GET /api/admin/users?role=
func (h *AdminHandlers) Users(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	var role models.Role
	if raw := c.QueryParam("role"); raw != "" {
		if role, err = models.ParseRole(raw); err != nil {
			return common.NewValidationError("%s", err)
		}
	}
	users, err := h.adminService.Users(c.Request().Context(), identity, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Restaurants handles GET /api/admin/restaurants
func (h *AdminHandlers) Restaurants(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	restaurants, err := h.adminService.Restaurants(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurants)
}

// Couriers handles GET /api/admin/couriers
func (h *AdminHandlers) Couriers(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	couriers, err := h.adminService.Couriers(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, couriers)
}

// Orders handles GET /api/admin/orders
func (h *AdminHandlers) Orders(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	orders, err := h.adminService.Orders(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}
