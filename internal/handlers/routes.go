package handlers

import (
	"foodgo/internal/middleware"
	"foodgo/internal/models"
	"foodgo/internal/realtime"

	"github.com/labstack/echo/v4"
)

// Routes groups every handler the HTTP surface exposes.
type Routes struct {
	Auth          *AuthHandlers
	Orders        *OrderHandlers
	Couriers      *CourierHandlers
	Notifications *NotificationHandlers
	Restaurants   *RestaurantHandlers
	Geocode       *GeocodeHandlers
	Uploads       *UploadHandlers
	Health        *HealthHandlers
	Admin         *AdminHandlers
	Socket        *realtime.SocketServer
	Authenticate  echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, r Routes) {
	e.GET("/ws", r.Socket.Handle)

	api := e.Group("/api")
	api.GET("/health", r.Health.Live)
	api.GET("/health/ready", r.Health.Ready)

	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)
	auth.POST("/logout", r.Auth.Logout)
	auth.GET("/me", r.Auth.Me, r.Authenticate)

	api.GET("/restaurants", r.Restaurants.List)
	api.GET("/restaurants/:id", r.Restaurants.Get)

	protected := api.Group("", r.Authenticate)

	orders := protected.Group("/orders")
	orders.POST("", r.Orders.CreateOrder, middleware.RequireRole(models.RoleCustomer))
	orders.GET("/my", r.Orders.ListMyOrders)
	orders.GET("/:id", r.Orders.GetOrder)
	orders.PATCH("/:id/status/owner", r.Orders.UpdateOwnerStatus, middleware.RequireRole(models.RoleOwner, models.RoleAdmin))
	orders.PATCH("/:id/status/courier", r.Orders.UpdateCourierStatus, middleware.RequireRole(models.RoleCourier, models.RoleAdmin))
	orders.POST("/:id/confirm-delivered", r.Orders.ConfirmDelivered, middleware.RequireRole(models.RoleCustomer, models.RoleAdmin))

	couriers := protected.Group("/couriers", middleware.RequireRole(models.RoleCourier, models.RoleAdmin))
	couriers.GET("/available-orders", r.Couriers.AvailableOrders)
	couriers.GET("/my-orders", r.Couriers.MyOrders)
	couriers.POST("/claim/:orderId", r.Couriers.Claim)
	couriers.POST("/position", r.Couriers.ReportPosition)
	couriers.PATCH("/orders/:orderId/status", r.Orders.UpdateCourierStatus)

	notifications := protected.Group("/notifications")
	notifications.GET("", r.Notifications.List)
	notifications.GET("/all", r.Notifications.ListAll)
	notifications.POST("/:id/read", r.Notifications.MarkRead)
	notifications.POST("/read-all", r.Notifications.MarkAllRead)

	protected.POST("/quotes/preview", r.Orders.PreviewQuote)
	protected.POST("/geocode", r.Geocode.Geocode)
	protected.POST("/upload", r.Uploads.UploadImage, middleware.RequireRole(models.RoleOwner, models.RoleAdmin))

	admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", r.Admin.Users)
	admin.GET("/restaurants", r.Admin.Restaurants)
	admin.GET("/couriers", r.Admin.Couriers)
	admin.GET("/orders", r.Admin.Orders)
}
