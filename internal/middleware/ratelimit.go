package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter caps requests per client IP and route. With Redis the window is
// shared across instances; without it, or while Redis is failing, a
// per-process token bucket applies.
type RateLimiter struct {
	redis  *redis.Client
	prefix string
	limit  int
	window time.Duration
	local  *localLimiter
	log    *zap.Logger
}

func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		local:  newLocalLimiter(rate.Limit(float64(limit)/window.Seconds()), limit),
		log:    logger,
	}
}

func (r *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP() + ":" + c.Path()
		if !r.allow(c.UserContext(), key) {
			r.log.Warn("rate limit exceeded", zap.String("ip", c.IP()), zap.String("path", c.Path()))
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%.0f", r.window.Seconds()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests, please try again later",
			})
		}
		return c.Next()
	}
}

func (r *RateLimiter) allow(ctx context.Context, key string) bool {
	if r.redis == nil {
		return r.local.allow(key)
	}
	redisKey := fmt.Sprintf("%s:%s", r.prefix, key)
	// EXPIRE NX on every hit gives a counter left without a TTL one on the
	// next request.
	var count *redis.IntCmd
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, r.window)
		return nil
	})
	if err != nil {
		r.log.Warn("redis rate limiter unavailable, using local limiter", zap.Error(err))
		return r.local.allow(key)
	}
	return count.Val() <= int64(r.limit)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type localLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

func newLocalLimiter(rps rate.Limit, burst int) *localLimiter {
	return &localLimiter{
		visitors:  make(map[string]*visitor),
		rps:       rps,
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > time.Minute {
		cutoff := now.Add(-5 * time.Minute)
		for k, v := range l.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}
