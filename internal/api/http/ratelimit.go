package httpapi

import (
	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// visitorCapacity bounds how many client limiters are remembered; the least
// recently seen client is forgotten first.
const visitorCapacity = 4096

type rateLimiter struct {
	visitors *lru.Cache
	limit    rate.Limit
	burst    int
}

// limitPerClient allows rps requests per second per client IP with the given
// burst. A non-positive rps disables limiting.
func limitPerClient(rps float64, burst int, log logrus.FieldLogger) (fiber.Handler, error) {
	if rps <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }, nil
	}
	if burst <= 0 {
		burst = 1
	}

	cache, err := lru.New(visitorCapacity)
	if err != nil {
		return nil, err
	}
	l := &rateLimiter{visitors: cache, limit: rate.Limit(rps), burst: burst}

	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !l.visitor(ip).Allow() {
			log.WithField("ip", ip).Warn("rate limit exceeded")
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return c.Next()
	}, nil
}

func (l *rateLimiter) visitor(ip string) *rate.Limiter {
	if v, ok := l.visitors.Get(ip); ok {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	// Another request may have raced us; keep whichever got in first.
	if prev, ok, _ := l.visitors.PeekOrAdd(ip, limiter); ok {
		return prev.(*rate.Limiter)
	}
	return limiter
}
