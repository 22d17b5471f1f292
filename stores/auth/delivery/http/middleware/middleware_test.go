package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
	gomiddleware "github.com/kreana/goapi/middleware"
	"github.com/kreana/goapi/service/cache/provider/primitive"
	"github.com/kreana/goapi/stores/auth/usecase"
)

const (
	owner    = domain.Address("0x1000000000000000000000000000000000000001")
	stranger = domain.Address("0xa000000000000000000000000000000000000001")
)

type ownerFactory struct {
	factory.UseCase
}

func (f ownerFactory) Owner(c ctx.Ctx) domain.Address {
	return owner
}

func newServer(t *testing.T) (*echo.Echo, domain.AuthUsecase) {
	auth := usecase.New(usecase.Config{
		JwtSecret: "jwt-secret",
		Nonces:    primitive.NewPrimitive("auth-middleware-test", 1),
	})
	m := New(auth, ownerFactory{})

	e := echo.New()
	e.Use(gomiddleware.InitMiddleware().AddContext())
	whoami := func(c echo.Context) error {
		return c.String(http.StatusOK, string(c.Get("address").(domain.Address)))
	}
	e.GET("/me", whoami, m.Auth())
	e.GET("/admin", whoami, m.Auth(), m.IsOwner())
	return e, auth
}

func call(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	e, auth := newServer(t)

	require.Equal(t, http.StatusUnauthorized, call(e, "/me", "garbage").Code)

	tkn, err := auth.SignToken(ctx.Background(), stranger)
	require.NoError(t, err)
	rec := call(e, "/me", tkn)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, string(stranger), rec.Body.String())
}

func TestIsOwner(t *testing.T) {
	e, auth := newServer(t)

	tkn, err := auth.SignToken(ctx.Background(), stranger)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, call(e, "/admin", tkn).Code)

	tkn, err = auth.SignToken(ctx.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, call(e, "/admin", tkn).Code)
}
