package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/delivery"
	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/base/metrics"
	"github.com/kreana/goapi/base/validator"
	"github.com/kreana/goapi/domain"
)

// GoMiddleware represent the data-struct for middleware
type GoMiddleware struct {
	// another stuff , may be needed by middleware
}

// InitMiddleware initialize the middleware
func InitMiddleware() *GoMiddleware {
	return &GoMiddleware{}
}

// AddContext adds custom context into echo
func (m *GoMiddleware) AddContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			cont := ctx.WithValue(ctx.From(c.Request().Context()), "requestID", c.Response().Header().Get(echo.HeaderXRequestID))
			c.Set("ctx", cont)
			return next(c)
		}
	}
}

// ResponseLogger logs response for every request
func (m *GoMiddleware) ResponseLogger() echo.MiddlewareFunc {
	met := metrics.New("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer met.BumpTime("request.time", "method", c.Request().Method, "path", c.Path()).End()

			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := log.Fields{
				"ms":         time.Since(start).Seconds() * 1000,
				"httpStatus": res.Status,
				"host":       req.Host,
				"remoteIP":   c.RealIP(),
				"uri":        req.URL.Path,
				"httpMethod": req.Method,
				"size":       res.Size,
				"userAgent":  req.UserAgent(),
				"referer":    req.Header.Get("Referer"),
			}
			if address, ok := c.Get("address").(domain.Address); ok {
				fields["sender"] = address
			}

			n := res.Status
			switch {
			case n >= 400:
				fields["nextErr"] = err
			default:
			}

			cont, ok := c.Get("ctx").(ctx.Ctx)
			if !ok {
				cont = ctx.Background()
			}
			cont.WithFields(fields).Info("response")
			return nil
		}
	}
}

func IsValidAddress(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			if !validator.IsValidAddress(c.Param(param)) {
				return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid address")
			}
			return next(c)
		}
	}
}
