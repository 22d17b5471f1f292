package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

type AuthMiddleware struct {
	auth    domain.AuthUsecase
	factory factory.UseCase
}

func New(auth domain.AuthUsecase, factory factory.UseCase) *AuthMiddleware {
	return &AuthMiddleware{
		auth:    auth,
		factory: factory,
	}
}

// Auth requires a bearer token and sets "address" to its subject
func (m *AuthMiddleware) Auth() echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: m.validateAuthToken,
		ErrorHandler: func(err error, c echo.Context) error {
			return delivery.MakeJsonResp(c, http.StatusUnauthorized, domain.ErrUnauthenticated)
		},
	})
}

// IsOwner only lets the current ledger owner through, ownership can move at runtime
func (m *AuthMiddleware) IsOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Get("ctx").(ctx.Ctx)

			address, ok := c.Get("address").(domain.Address)
			if !ok || !address.Equals(m.factory.Owner(ctx)) {
				return delivery.MakeJsonResp(c, http.StatusForbidden, domain.ErrUnauthorized)
			}
			return next(c)
		}
	}
}

func (m *AuthMiddleware) validateAuthToken(key string, c echo.Context) (bool, error) {
	ctx := c.Get("ctx").(ctx.Ctx)
	if ads, err := m.auth.ParseToken(ctx, key); err != nil {
		ctx.WithField("err", err).Warn("auth.ParseToken failed")
		return false, nil
	} else {
		c.Set("address", ads)
		return true, nil
	}
}
