package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/veribill/veribill/internal/auth"
)

// RegisterAuthRoutes wires signup and login endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	r.Post("/signup", h.Signup)
	if rateLimiter != nil {
		r.Post("/login", rateLimiter, h.Login)
	} else {
		r.Post("/login", h.Login)
	}
}
