package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionHeader stamps every response with the API version and build.
func VersionHeader(apiVersion, build string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", apiVersion)
			if build != "" {
				c.Response().Header().Set("X-Build", build)
			}
			return next(c)
		}
	}
}
