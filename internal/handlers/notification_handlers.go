package handlers

import (
	"net/http"

	"foodgo/internal/common"
	"foodgo/internal/middleware"
	"foodgo/internal/services"

	"github.com/labstack/echo/v4"
)

type NotificationHandlers struct {
	notificationService services.NotificationService
}

func NewNotificationHandlers(notificationService services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationService: notificationService}
}

// List handles GET /api/notifications
func (h *NotificationHandlers) List(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	items, err := h.notificationService.List(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListAll handles GET /api/notifications/all
func (h *NotificationHandlers) ListAll(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	items, err := h.notificationService.ListAll(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// MarkRead handles POST /api/notifications/:id/read
func (h *NotificationHandlers) MarkRead(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	n, err := h.notificationService.MarkRead(c.Request().Context(), identity.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// MarkAllRead handles POST /api/notifications/read-all
func (h *NotificationHandlers) MarkAllRead(c echo.Context) error {
	identity, err := middleware.Identity(c)
	if err != nil {
		return err
	}
	if err := h.notificationService.MarkAllRead(c.Request().Context(), identity.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
