package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/late-show-api/internal/config"
)

const msgTooManyRequests = "Too many requests"

// bucketScript takes one token from the bucket at KEYS[1], refilling it
// first for every whole interval since the last refill.
//
//	ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_s
//	returns {allowed (1/0), tokens left, wait_ms}
var bucketScript = redis.NewScript(`
local now      = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill   = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])

local state  = redis.call('HMGET', KEYS[1], 'tokens', 'refilled_at')
local tokens = tonumber(state[1]) or capacity
local at     = tonumber(state[2]) or now

local steps = math.floor(math.max(0, now - at) / interval)
if steps > 0 then
  tokens = math.min(capacity, tokens + steps * refill)
  at = at + steps * interval
end

local allowed, wait = 0, 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  wait = math.max(0, interval - (now - at))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'refilled_at', at)
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[5]))
return {allowed, tokens, wait}
`)

// bucketResult is the decoded reply of bucketScript.
type bucketResult struct {
	allowed   bool
	remaining int64
	wait      time.Duration
}

func decodeBucket(v any) (bucketResult, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		return bucketResult{}, false
	}
	var n [3]int64
	for i, x := range arr {
		switch t := x.(type) {
		case int64:
			n[i] = t
		case string:
			p, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				return bucketResult{}, false
			}
			n[i] = p
		default:
			return bucketResult{}, false
		}
	}
	return bucketResult{allowed: n[0] == 1, remaining: n[1], wait: time.Duration(n[2]) * time.Millisecond}, true
}

// NewTokenBucket limits requests per key with a Redis-backed token bucket.
// Redis failures let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	interval := cfg.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}
	ttl := int64(math.Max(1, math.Ceil(cfg.TTL.Seconds())))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			reply, err := bucketScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(), cfg.Capacity, cfg.RefillTokens, interval.Milliseconds(), ttl).Result()
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: redis error for %s: %v", key, err)
				}
				return next(c)
			}
			res, ok := decodeBucket(reply)
			if !ok {
				if cfg.Debug {
					c.Logger().Warnf("ratelimit: unexpected reply for %s: %#v", key, reply)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
			if !res.allowed {
				h.Set(echo.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(res.wait.Seconds()))))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": msgTooManyRequests})
			}
			return next(c)
		}
	}
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "route":
		parts = append(parts, "route", route)
	default: // "ip_route"
		parts = append(parts, "ip", ip, "route", route)
	}
	return strings.Join(parts, ":")
}
