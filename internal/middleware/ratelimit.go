package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter throttles a route per client IP. With a redis client the
// counters are shared across instances; without one each process keeps its
// own token buckets.
type RateLimiter struct {
	limit  int
	window time.Duration
	rdb    *redis.Client
	logger *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewRateLimiter(limit int, window time.Duration, rdb *redis.Client, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		window:   window,
		rdb:      rdb,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Handler returns the gin middleware. name keys the redis counters so
// different routes do not share a budget.
func (rl *RateLimiter) Handler(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c, name) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(c *gin.Context, name string) bool {
	ip := c.ClientIP()
	if rl.rdb != nil {
		return rl.allowRedis(c, name, ip)
	}
	return rl.allowLocal(ip)
}

// allowRedis counts requests in a fixed window. If redis is down the request
// passes; throttling is protection, not a correctness requirement.
func (rl *RateLimiter) allowRedis(c *gin.Context, name, ip string) bool {
	key := fmt.Sprintf("ratelimit:%s:%s", name, ip)

	count, err := rl.rdb.Incr(c.Request.Context(), key).Result()
	if err != nil {
		rl.logger.Warn("rate limiter redis unavailable", "error", err)
		return true
	}
	if count == 1 {
		rl.rdb.Expire(c.Request.Context(), key, rl.window)
	}
	return count <= int64(rl.limit)
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	rl.mu.Lock()
	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit)
		rl.limiters[ip] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}
