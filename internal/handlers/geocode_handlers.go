package handlers

import (
	"net/http"

	"foodgo/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type GeocodeHandlers struct {
	geocoder services.Geocoder
}

func NewGeocodeHandlers(geocoder services.Geocoder) *GeocodeHandlers {
	return &GeocodeHandlers{geocoder: geocoder}
}

type geocodeRequest struct {
	Address string `json:"address" validate:"required,min=3"`
}

// Geocode handles POST /api/geocode. Unresolvable addresses answer null.
func (h *GeocodeHandlers) Geocode(c echo.Context) error {
	var req geocodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	point, err := h.geocoder.Geocode(c.Request().Context(), req.Address)
	if err != nil {
		log.Warn().Err(err).Msg("geocode lookup failed")
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, point)
}
