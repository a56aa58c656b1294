package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ContactRateLimit limits requests per contact (email, then phone, then
// client IP) per minute using Redis when available. The limiter fails open:
// without Redis, or on cache errors, requests pass through.
func ContactRateLimit(cache *redis.Client, maxPerMin int, scope string) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		var req struct {
			Email string `json:"email"`
			Phone string `json:"phone"`
		}
		_ = c.BodyParser(&req)

		contact := strings.TrimSpace(req.Email)
		if contact == "" {
			contact = strings.TrimSpace(req.Phone)
		}
		if contact == "" {
			contact = c.IP()
		}

		key := "rl:" + scope + ":" + contact
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many attempts, try again later")
		}
		return c.Next()
	}
}
