package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"cordoba/internal/config"
)

const rateLimitPrefix = "cordoba:ratelimit"

// NewRateLimitStore builds the limiter store selected by cfg.Store. The redis
// store shares client with the preview cache and must not be nil then.
func NewRateLimitStore(cfg config.RateLimitConfig, client redis.UniversalClient) (limiter.Store, error) {
	opts := limiter.StoreOptions{Prefix: rateLimitPrefix, CleanUpInterval: limiter.DefaultCleanUpInterval}
	switch cfg.Store {
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("rate limit: redis store selected without a redis client")
		}
		store, err := sredis.NewStoreWithOptions(client, opts)
		if err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		return store, nil
	default:
		return memory.NewStoreWithOptions(opts), nil
	}
}

// RateLimit limits each client IP to perMinute requests per minute.
func RateLimit(store limiter.Store, perMinute int64, log logrus.FieldLogger) gin.HandlerFunc {
	rate := limiter.Rate{Period: time.Minute, Limit: perMinute}
	return mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.WithError(err).Error("rate limiter store failed")
			abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		}),
	)
}
