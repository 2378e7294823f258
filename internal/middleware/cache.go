package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/late-show-api/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy.  The
// route template is combined with the concrete path so /episodes/1 and
// /episodes/2 never share an entry.  gen is the write generation read when
// the request started.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, gen int64) string {
	r := c.Request()
	route := c.Path() + "|" + r.URL.Path

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", route}
	case "method_route":
		parts = []string{"method", r.Method, "route", route}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", route, "q", r.URL.RawQuery}
	default: // "route_query"
		parts = []string{"route", route, "q", r.URL.RawQuery}
	}

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%d:%x", cfg.Prefix, gen, sum[:])
}

// generationKey holds the counter bumped after every successful write.  It
// lives outside "<prefix>:*" so PurgeCache never resets it.
func generationKey(prefix string) string { return prefix + "-gen" }

func currentGeneration(ctx context.Context, rdb *redis.Client, prefix string) (int64, error) {
	n, err := rdb.Get(ctx, generationKey(prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// storableHeader drops headers that belong to a single request, so a
// replayed response never carries another request's id or rate limit
// counters.
func storableHeader(h http.Header) http.Header {
	out := h.Clone()
	for k := range out {
		switch ck := http.CanonicalHeaderKey(k); {
		case ck == "X-Cache", ck == echo.HeaderContentLength, ck == echo.HeaderXRequestID, ck == echo.HeaderRetryAfter,
			strings.HasPrefix(ck, "X-Ratelimit-"):
			delete(out, k)
		}
	}
	return out
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewRedisCache replays cached 200 responses for the configured methods.
// Headers and body are stored together so clients see identical bytes.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			gen, err := currentGeneration(ctx, rdb, cfg.Prefix)
			if err != nil {
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, gen)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					out := c.Response().Header()
					for k, vals := range storableHeader(hdr) {
						out.Del(k)
						for _, v := range vals {
							out.Add(k, v)
						}
					}
					out.Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			// truncated bodies are never stored
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			// a write committed while this request ran; its body may be stale
			if now, err := currentGeneration(context.Background(), rdb, cfg.Prefix); err != nil || now != gen {
				return nil
			}
			payload, err := encodePayload(cw.status, storableHeader(c.Response().Header()), cw.buf.Bytes())
			if err == nil {
				_ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
			}
			return nil
		}
	}
}

// InvalidateOnWrite bumps the write generation and purges every cached
// response after a successful request whose method is not cached.  Reads
// that started before the bump store under the old generation, which no
// later lookup uses, so deletes and creates are visible on the next read.
func InvalidateOnWrite(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return err
			}
			if status := c.Response().Status; err == nil && status >= 200 && status < 300 {
				if ierr := rdb.Incr(context.Background(), generationKey(cfg.Prefix)).Err(); ierr != nil {
					log.Warn("cache generation bump failed", zap.Error(ierr))
				}
				n, perr := PurgeCache(context.Background(), rdb, cfg.Prefix)
				if perr != nil {
					log.Warn("cache purge failed", zap.Error(perr))
				} else {
					log.Debug("cache purged", zap.Int("keys", n))
				}
			}
			return err
		}
	}
}

// PurgeCache deletes every key under prefix and returns how many were
// removed.
func PurgeCache(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+":*", 100).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if cursor = next; cursor == 0 {
			return removed, nil
		}
	}
}
