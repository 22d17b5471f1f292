package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/domain/keys"
	"github.com/kreana/goapi/service/cache/provider"
)

const cacheMiddlewarePfx = "httpCacheMiddleware"

// Response is the cached response data structure.
type Response struct {
	// Value is the cached response value.
	Value []byte

	// Header is the cached response header.
	Header http.Header
}

type bodyDumpResponseWriter struct {
	statusCode int
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpResponseWriter) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *bodyDumpResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

func sortURLParams(URL *url.URL) {
	params := URL.Query()
	for _, param := range params {
		sort.Slice(param, func(i, j int) bool {
			return param[i] < param[j]
		})
	}
	URL.RawQuery = params.Encode()
}

func generateKey(URL string) string {
	hash := fnv.New64a()
	hash.Write([]byte(URL))

	return strconv.FormatUint(hash.Sum64(), 36)
}

// CacheHttp serves successful GET responses from cache for ttl. Only use it
// on routes whose response never changes once it exists, such as receipts.
func CacheHttp(cache provider.Provider, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cont, ok := c.Get("ctx").(ctx.Ctx)
			if !ok {
				cont = ctx.Background()
			}

			sortURLParams(c.Request().URL)
			key := keys.RedisKey(cacheMiddlewarePfx, generateKey(c.Request().URL.String()))

			if raw, _, err := cache.Get(cont, key); err == nil {
				response := Response{}
				if err := json.Unmarshal(raw, &response); err == nil {
					for k, v := range response.Header {
						c.Response().Header().Set(k, strings.Join(v, ","))
					}
					c.Response().WriteHeader(http.StatusOK)
					_, err := c.Response().Write(response.Value)
					return err
				}
				cont.WithField("key", key).Warn("dropping undecodable cached response")
			} else if err != provider.ErrNotFound {
				cont.WithFields(log.Fields{
					"err": err,
				}).Error("failed to cache.Get")
			}

			// cache miss
			resBody := new(bytes.Buffer)
			mw := io.MultiWriter(c.Response().Writer, resBody)
			writer := &bodyDumpResponseWriter{statusCode: http.StatusOK, Writer: mw, ResponseWriter: c.Response().Writer}
			c.Response().Writer = writer
			if err := next(c); err != nil {
				c.Error(err)
			}

			if writer.statusCode != http.StatusOK {
				return nil
			}
			raw, err := json.Marshal(Response{Value: resBody.Bytes(), Header: writer.Header()})
			if err != nil {
				cont.WithField("err", err).Error("json.Marshal failed")
				return nil
			}
			if err := cache.Set(cont, key, raw, ttl); err != nil {
				cont.WithFields(log.Fields{
					"err": err,
				}).Error("failed to cache.Set")
			}

			return nil
		}
	}
}
