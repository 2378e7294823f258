package config

// Redis backs the response cache and the rate limiter.  Both are optional:
// when the server cannot be reached at startup NewRedisClient returns nil
// and the middlewares fall back to pass-through.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client using environment variables.
// Supported variables are:
//
//	REDIS_ENABLED – force Redis on or off; by default it is on only when
//	                REDIS_ADDR or REDIS_HOST is set
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand (used when host/port are not both set)
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS when "true" or "1"
//	REDIS_TLS_INSECURE – skip certificate verification (testing only)
func NewRedisClient(ctx context.Context) *redis.Client {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	addr := os.Getenv("REDIS_ADDR")
	if !envBool("REDIS_ENABLED", addr != "" || host != "") {
		return nil
	}
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if n, err := strconv.Atoi(dbStr); err == nil {
			dbNum = n
		}
	}
	tlsConf := redisTLSConfig()
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

// redisTLSConfig returns nil unless REDIS_TLS is set.  Certificates are
// verified unless REDIS_TLS_INSECURE is true.
func redisTLSConfig() *tls.Config {
	if v := os.Getenv("REDIS_TLS"); !strings.EqualFold(v, "true") && v != "1" {
		return nil
	}
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: envBool("REDIS_TLS_INSECURE", false),
	}
}
