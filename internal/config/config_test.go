package config

import (
	"context"
	"crypto/tls"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_PORT", "")
	t.Setenv("SQLITE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "late_show.db", cfg.DB.SQLitePath)
	assert.Equal(t, "5555", cfg.Port)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoadMySQLReportsEveryMissingVar(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	for _, k := range []string{"DB_USER", "DB_HOST", "DB_PORT", "DB_NAME"} {
		t.Setenv(k, "")
	}

	_, err := Load()
	require.Error(t, err)
	for _, k := range []string{"DB_USER", "DB_HOST", "DB_PORT", "DB_NAME"} {
		assert.Contains(t, err.Error(), k)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoadAMQPConfigPrefersRabbitURL(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "amqp://a")
	t.Setenv("AMQP_URL", "amqp://b")
	t.Setenv("AMQP_ENABLED", "yes")

	c := LoadAMQPConfig()
	assert.Equal(t, "amqp://a", c.URL)
	assert.True(t, c.Enabled)
	assert.Equal(t, "late_show.events", c.Queue)
}

func TestLoadRateLimitConfigClampsTTL(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "10s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")

	c := LoadRateLimitConfig()
	assert.Equal(t, 50*time.Second, c.TTL)
	assert.Equal(t, 1, c.Capacity)
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	c := LoadCacheConfig()
	assert.True(t, c.Methods["GET"])
	assert.True(t, c.Methods["HEAD"])
	assert.False(t, c.Methods["POST"])
}

func TestCacheIsOptIn(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	assert.False(t, LoadCacheConfig().Enabled)

	t.Setenv("CACHE_ENABLED", "true")
	assert.True(t, LoadCacheConfig().Enabled)
}

func TestNewRedisClientNeedsAnAddress(t *testing.T) {
	for _, k := range []string{"REDIS_ENABLED", "REDIS_ADDR", "REDIS_HOST", "REDIS_PORT"} {
		t.Setenv(k, "")
	}
	assert.Nil(t, NewRedisClient(context.Background()))

	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	rdb := NewRedisClient(context.Background())
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })

	t.Setenv("REDIS_ENABLED", "false")
	assert.Nil(t, NewRedisClient(context.Background()))
}

func TestRedisTLSVerifiesByDefault(t *testing.T) {
	t.Setenv("REDIS_TLS", "")
	assert.Nil(t, redisTLSConfig())

	t.Setenv("REDIS_TLS", "true")
	t.Setenv("REDIS_TLS_INSECURE", "")
	c := redisTLSConfig()
	require.NotNil(t, c)
	assert.False(t, c.InsecureSkipVerify)
	assert.Equal(t, uint16(tls.VersionTLS12), c.MinVersion)

	t.Setenv("REDIS_TLS_INSECURE", "true")
	assert.True(t, redisTLSConfig().InsecureSkipVerify)
}
