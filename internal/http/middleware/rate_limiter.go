package middleware

import (
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	transport "business-service/internal/transport/echo"
	apperrors "business-service/pkg/errors"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"

	msgRateLimitExceeded = "rate limit exceeded"
)

// RateLimiter implements token bucket rate limiting per identity
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// KeyFunc picks the bucket a request is charged to
type KeyFunc func(c echo.Context) string

// ByClientIP charges every request to the client address. It does not need
// an identity, so it can run before authentication.
func ByClientIP(c echo.Context) string {
	return "ip:" + c.RealIP()
}

// ByIdentity charges authenticated callers per user and everyone else per
// client address. It must run after authentication.
func ByIdentity(c echo.Context) string {
	if id := transport.IdentityFrom(c); id != nil {
		return "user:" + id.UserID.String()
	}
	return ByClientIP(c)
}

// Middleware returns an Echo middleware function for rate limiting. Rejected
// requests get an apperrors.ErrRateLimited error for the server's error
// handler to render.
func (rl *RateLimiter) Middleware(key KeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(key(c))

			c.Response().Header().Set(headerRateLimitLimit, strconv.Itoa(rl.burst))

			if !limiter.Allow() {
				c.Response().Header().Set(headerRateLimitRemaining, "0")
				c.Response().Header().Set(headerRetryAfter, "1")

				return apperrors.RateLimited(msgRateLimitExceeded)
			}

			c.Response().Header().Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))

			return next(c)
		}
	}
}
