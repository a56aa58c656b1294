package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/veribill/veribill/internal/identity"
)

// RegisterProfileRoute exposes the authenticated user's profile behind the
// bearer-token middleware.
func RegisterProfileRoute(r fiber.Router, ids *identity.Service, authmw fiber.Handler) {
	r.Get("/me", authmw, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		user, err := ids.Get(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusNotFound, "user not found")
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"id":         user.ID,
			"fullname":   user.FullName,
			"email":      user.Email,
			"phone":      user.Phone,
			"created_at": user.CreatedAt,
		})
	})
}
