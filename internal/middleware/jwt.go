package middleware

import (
	"foodgo/internal/common"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const identityContextKey = "identity"

// TokenParser resolves a bearer token into a caller identity.
type TokenParser interface {
	ParseToken(token string) (common.Identity, error)
}

// JWTMiddleware resolves the caller from the Authorization header and stores
// it on the request context. Missing or invalid tokens yield 401.
func JWTMiddleware(parser TokenParser) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityContextKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return parser.ParseToken(auth)
		},
		SuccessHandler: func(c echo.Context) {
			identity, ok := c.Get(identityContextKey).(common.Identity)
			if !ok {
				return
			}
			ctx := common.WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.NewAuthenticationError("missing or invalid token")
		},
	})
}

// Identity returns the caller resolved by JWTMiddleware.
func Identity(c echo.Context) (common.Identity, error) {
	identity, ok := common.IdentityFromContext(c.Request().Context())
	if !ok {
		return common.Identity{}, common.NewAuthenticationError("authentication required")
	}
	return identity, nil
}
