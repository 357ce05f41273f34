package handlers

import (
	"net/http"

	"foodgo/internal/middleware"
	"foodgo/internal/models"
	"foodgo/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Register(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout. Tokens are stateless.
func (h *AuthHandlers) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
