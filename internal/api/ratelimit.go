package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/auth"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/response"
)

// RateCounter counts hits on key within a window and returns the new count.
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter keeps counters in Redis so limits hold across instances.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Hit starts a window on the first hit of a key and counts into it until the
// key expires. Later hits never extend the TTL.
func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, window)
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Result()
}

// RateLimit allows maxRequests per caller within window. It must run after
// the auth middleware; unauthenticated requests are keyed by client IP.
func RateLimit(counter RateCounter, scope string, maxRequests int, window time.Duration, logger internal.Logger) gin.HandlerFunc {
	if counter == nil {
		panic("RateCounter cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 || window <= 0 {
		panic("RateLimit needs a positive limit and window")
	}

	return func(c *gin.Context) {
		key := "ratelimit:" + scope + ":ip:" + c.ClientIP()
		if user, ok := auth.CurrentUser(c); ok {
			key = "ratelimit:" + scope + ":user:" + user.ID
		}

		count, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			HandleError(c, logger, err, http.StatusInternalServerError, "Rate limiting error")
			c.Abort()
			return
		}
		if count > int64(maxRequests) {
			logger.Warnf("[request_id=%s] rate limit exceeded for %s", c.GetString("request_id"), key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.TooManyRequests("Too many requests"))
			return
		}
		c.Next()
	}
}
