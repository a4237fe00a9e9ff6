package middleware_test

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"

	"cordoba/internal/config"
	"cordoba/internal/middleware"
)

func limitedRouter(t *testing.T, store limiter.Store, perMinute int64) *gin.Engine {
	t.Helper()
	log, _ := test.NewNullLogger()
	r := gin.New()
	r.Use(middleware.RateLimit(store, perMinute, log))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit_MemoryStore(t *testing.T) {
	store, err := middleware.NewRateLimitStore(config.RateLimitConfig{Store: "memory"}, nil)
	require.NoError(t, err)
	r := limitedRouter(t, store, 2)

	assert.Equal(t, http.StatusOK, get(r, "/test").Code)
	second := get(r, "/test")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := get(r, "/test")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, third))
}

func TestRateLimit_RedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := middleware.NewRateLimitStore(config.RateLimitConfig{Store: "redis"}, client)
	require.NoError(t, err)
	r := limitedRouter(t, store, 1)

	assert.Equal(t, http.StatusOK, get(r, "/test").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/test").Code)
}

func TestNewRateLimitStore_RedisWithoutClient(t *testing.T) {
	_, err := middleware.NewRateLimitStore(config.RateLimitConfig{Store: "redis"}, nil)
	assert.Error(t, err)
}
