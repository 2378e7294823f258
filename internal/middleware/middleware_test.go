package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/late-show-api/internal/config"
)

func newContext(e *echo.Echo, method, target, route string) echo.Context {
	req := httptest.NewRequest(method, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(route)
	return c
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"id":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"id":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
}

func TestCacheKeyDistinguishesConcretePaths(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "late_show:cache", KeyStrategy: "route_query"}

	k1 := cacheKeyFrom(cfg, newContext(e, http.MethodGet, "/episodes/1", "/episodes/:id"), 0)
	k2 := cacheKeyFrom(cfg, newContext(e, http.MethodGet, "/episodes/2", "/episodes/:id"), 0)
	k1again := cacheKeyFrom(cfg, newContext(e, http.MethodGet, "/episodes/1", "/episodes/:id"), 0)
	k1next := cacheKeyFrom(cfg, newContext(e, http.MethodGet, "/episodes/1", "/episodes/:id"), 1)

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k1again)
	assert.NotEqual(t, k1, k1next)
	assert.True(t, strings.HasPrefix(k1, "late_show:cache:0:"))
}

func TestRedisMiddlewaresPassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	called := 0
	h := func(c echo.Context) error { called++; return c.NoContent(http.StatusNoContent) }

	cacheCfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}
	for _, mw := range []echo.MiddlewareFunc{
		NewRedisCache(cacheCfg, nil),
		InvalidateOnWrite(cacheCfg, nil, zap.NewNop()),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	} {
		c := newContext(e, http.MethodGet, "/guests", "/guests")
		require.NoError(t, mw(h)(c))
	}
	assert.Equal(t, 3, called)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	c := newContext(e, http.MethodPost, "/appearances", "/appearances")
	c.Request().RemoteAddr = "10.0.0.1:5555"

	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /appearances",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}, c))
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:route:POST /appearances", buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "route"}, c))
}

func TestDecodeBucket(t *testing.T) {
	res, ok := decodeBucket([]any{int64(0), int64(0), int64(1500)})
	require.True(t, ok)
	assert.False(t, res.allowed)
	assert.Equal(t, 1500*time.Millisecond, res.wait)

	res, ok = decodeBucket([]any{int64(1), "7", int64(0)})
	require.True(t, ok)
	assert.True(t, res.allowed)
	assert.EqualValues(t, 7, res.remaining)

	_, ok = decodeBucket([]any{int64(1)})
	assert.False(t, ok)
	_, ok = decodeBucket("OK")
	assert.False(t, ok)
}

func TestMetricsCountsByRoute(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/episodes/:id", func(c echo.Context) error { return c.JSON(http.StatusNotFound, echo.Map{"error": "Episode not found"}) })
	e.GET("/metrics", m.Handler())

	for _, p := range []string{"/episodes/1", "/episodes/2"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/episodes/:id", "404")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "late_show_http_requests_total")
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/missing", func(c echo.Context) error { return c.JSON(http.StatusNotFound, echo.Map{}) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError) })

	for _, p := range []string{"/ok", "/missing", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.EqualValues(t, 500, entries[2].ContextMap()["status"])
}
