package middleware

import (
	"foodgo/internal/common"
	"foodgo/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole rejects callers whose role is not listed. It must run after JWTMiddleware.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := Identity(c)
			if err != nil {
				return err
			}
			if !identity.Role.In(roles...) {
				return common.NewForbiddenError("role %s is not allowed here", identity.Role)
			}
			return next(c)
		}
	}
}
