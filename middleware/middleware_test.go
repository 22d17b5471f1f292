package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kreana/goapi/base/ctx"
)

func TestAddContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	var got ctx.Ctx
	h := InitMiddleware().AddContext()(func(c echo.Context) error {
		got = c.Get("ctx").(ctx.Ctx)
		return nil
	})
	require.NoError(t, h(c))
	require.Equal(t, "req-1", got.Value("requestID"))
}

func TestIsValidAddress(t *testing.T) {
	e := echo.New()
	e.GET("/accounts/:address", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, IsValidAddress("address"))

	for target, status := range map[string]int{
		"/accounts/0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d": http.StatusOK,
		"/accounts/0x1234":                                     http.StatusBadRequest,
		"/accounts/alice":                                      http.StatusBadRequest,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, status, rec.Code, target)
	}
}
