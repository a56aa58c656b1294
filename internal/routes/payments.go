package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/veribill/veribill/internal/payments"
)

// RegisterPaymentRoutes wires payment CRUD endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Get("/payments", h.List)
	r.Post("/payments", h.Create)
	r.Put("/payments/:id", h.Update)
	r.Delete("/payments/:id", h.Delete)
}
