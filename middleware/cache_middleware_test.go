package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain/keys"
	"github.com/kreana/goapi/service/cache/provider"
	"github.com/kreana/goapi/service/cache/provider/primitive"
)

type cacheMiddlewareSuite struct {
	suite.Suite

	cache provider.Provider
	cont  ctx.Ctx
}

func (s *cacheMiddlewareSuite) SetupTest() {
	s.cache = primitive.NewPrimitive("httpCacheMiddleware", 1)
	s.cont = ctx.WithValue(ctx.Background(), "requestID", "test")
}

func TestCacheMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(cacheMiddlewareSuite))
}

func (s *cacheMiddlewareSuite) serve(target string, status int, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("ctx", s.cont)
	h := func(c echo.Context) error {
		return c.String(status, body)
	}
	s.Require().NoError(CacheHttp(s.cache, 30*time.Second)(h)(c))
	return rec
}

func (s *cacheMiddlewareSuite) TestCacheMiddleware() {
	rec := s.serve("/receipts/0x1", http.StatusOK, "Hello, World")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Hello, World", rec.Body.String())

	rec = s.serve("/receipts/0x1", http.StatusOK, "Hello, again")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Hello, World", rec.Body.String())

	key := keys.RedisKey(cacheMiddlewarePfx, generateKey("/receipts/0x1"))
	_, _, err := s.cache.Get(s.cont, key)
	s.NoError(err)
}

func (s *cacheMiddlewareSuite) TestSkipsFailures() {
	rec := s.serve("/receipts/0x2", http.StatusNotFound, "missing")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.serve("/receipts/0x2", http.StatusOK, "found")
	s.Equal("found", rec.Body.String())
}

func (s *cacheMiddlewareSuite) TestQueryOrderShareKey() {
	s.serve("/x?b=2&a=1", http.StatusOK, "first")
	rec := s.serve("/x?a=1&b=2", http.StatusOK, "second")
	s.Equal("first", rec.Body.String())
}
