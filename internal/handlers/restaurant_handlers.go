package handlers

import (
	"net/http"

	"foodgo/internal/common"
	"foodgo/internal/services"

	"github.com/labstack/echo/v4"
)

type RestaurantHandlers struct {
	restaurantService services.RestaurantService
}

func NewRestaurantHandlers(restaurantService services.RestaurantService) *RestaurantHandlers {
	return &RestaurantHandlers{restaurantService: restaurantService}
}

// List handles GET /api/restaurants
func (h *RestaurantHandlers) List(c echo.Context) error {
	restaurants, err := h.restaurantService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurants)
}

// Get handles GET /api/restaurants/:id
func (h *RestaurantHandlers) Get(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	restaurant, err := h.restaurantService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restaurant)
}
