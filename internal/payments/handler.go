package payments

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes payment CRUD endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type paymentResponse struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	BillFor   string    `json:"billFor"`
	Account   string    `json:"account"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(p Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		Date:      p.Date,
		BillFor:   p.BillFor,
		Account:   p.Account,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

// List returns all payments, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	payments, err := h.service.List(c.UserContext())
	if err != nil {
		h.logger.Error("list payments failed", "error", err)
		return fiber.NewError(http.StatusInternalServerError, "Failed to fetch payments")
	}

	result := make([]paymentResponse, 0, len(payments))
	for _, payment := range payments {
		result = append(result, toResponse(payment))
	}
	return c.Status(http.StatusOK).JSON(result)
}

type createRequest struct {
	BillFor string `json:"billFor"`
}

// Create records a new payment.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Create(c.UserContext(), req.BillFor)
	if err != nil {
		h.logger.Error("create payment failed", "error", err)
		return fiber.NewError(http.StatusInternalServerError, "Failed to create payment")
	}
	return c.Status(http.StatusOK).JSON(toResponse(payment))
}

type updateRequest struct {
	BillFor string `json:"billFor"`
}

// Update changes a payment's billing description.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Update(c.UserContext(), c.Params("id"), req.BillFor)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Payment not found")
		}
		h.logger.Error("update payment failed", "id", c.Params("id"), "error", err)
		return fiber.NewError(http.StatusInternalServerError, "Failed to update payment")
	}
	return c.Status(http.StatusOK).JSON(toResponse(payment))
}

// Delete removes a payment by identifier, reporting not-found distinctly.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "Payment not found")
		}
		h.logger.Error("delete payment failed", "id", id, "error", err)
		return fiber.NewError(http.StatusInternalServerError, "Failed to delete payment")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": fmt.Sprintf("Payment %s deleted successfully", id)})
}
