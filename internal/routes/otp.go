package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/veribill/veribill/internal/otp"
)

// RegisterOTPRoutes wires OTP issuance and verification endpoints.
func RegisterOTPRoutes(r fiber.Router, h *otp.Handler, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/send-otp", rateLimiter, h.Send)
	} else {
		r.Post("/send-otp", h.Send)
	}
	r.Post("/verify-otp", h.Verify)
}
