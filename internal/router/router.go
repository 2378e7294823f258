package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/late-show-api/internal/config"
	"github.com/iliyamo/late-show-api/internal/handler"
	"github.com/iliyamo/late-show-api/internal/middleware"
)

// Options carries the optional infrastructure wired around the handlers.
// A nil Redis client disables caching and rate limiting; a nil Metrics
// disables /metrics.
type Options struct {
	Log       *zap.Logger
	Metrics   *middleware.Metrics
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// New builds an echo instance with the standard middleware chain and every
// route registered.
func New(h *handler.Handler, opts Options) *echo.Echo {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
		e.GET("/metrics", opts.Metrics.Handler())
	}

	RegisterRoutes(e, h,
		middleware.NewTokenBucket(opts.RateLimit, opts.Redis),
		middleware.InvalidateOnWrite(opts.Cache, opts.Redis, opts.Log),
		middleware.NewRedisCache(opts.Cache, opts.Redis),
	)
	return e
}

// RegisterRoutes maps every API route to its handler.  The given middleware
// applies to the API routes only; "/healthz" is left bare so probes are
// never rate limited or cached.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, mw ...echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	e.GET("/", h.Home, mw...)

	// ---- Episodes ----
	e.GET("/episodes", h.ListEpisodes, mw...)
	e.GET("/episodes/:id", h.GetEpisode, mw...)
	e.DELETE("/episodes/:id", h.DeleteEpisode, mw...)

	// ---- Guests ----
	e.GET("/guests", h.ListGuests, mw...)
	e.DELETE("/guests/:id", h.DeleteGuest, mw...)

	// ---- Appearances ----
	e.POST("/appearances", h.CreateAppearance, mw...)
}
