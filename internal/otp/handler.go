package otp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Handler exposes OTP issuance and verification endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an OTP HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type sendRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
	Method string `json:"method" validate:"required,oneof=email phone"`
}

// Send issues an OTP over the requested channel.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Verification method required")
	}

	_, err := h.service.Issue(c.UserContext(), Contact{Email: req.Email, Phone: req.Phone}, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, ErrMethodRequired), errors.Is(err, ErrContactRequired):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDelivery):
			return fiber.NewError(http.StatusBadGateway, "Failed to send OTP")
		default:
			h.logger.Error("otp issuance failed", "error", err)
			return fiber.NewError(http.StatusInternalServerError, "Failed to send OTP")
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP sent successfully"})
}

type verifyRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
	Code  string `json:"code" validate:"required"`
}

// Verify checks a candidate code and consumes the record on success.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	err := h.service.Verify(c.UserContext(), Contact{Email: req.Email, Phone: req.Phone}, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrContactRequired):
			return fiber.NewError(http.StatusBadRequest, "Email or phone required")
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "OTP not found")
		case errors.Is(err, ErrInvalidCode):
			return fiber.NewError(http.StatusBadRequest, "Invalid OTP")
		case errors.Is(err, ErrExpired):
			return fiber.NewError(http.StatusBadRequest, "OTP expired")
		default:
			h.logger.Error("otp verification failed", "error", err)
			return fiber.NewError(http.StatusInternalServerError, "Verification failed")
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP verified successfully", "success": true})
}
